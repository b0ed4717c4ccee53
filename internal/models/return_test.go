package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturnTransitionsOneWay(t *testing.T) {
	allowed := [][2]string{
		{ReturnStatusPending, ReturnStatusApproved},
		{ReturnStatusPending, ReturnStatusRejected},
		{ReturnStatusApproved, ReturnStatusReceived},
		{ReturnStatusReceived, ReturnStatusRefunded},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransitionReturn(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}

	denied := [][2]string{
		{ReturnStatusApproved, ReturnStatusPending},
		{ReturnStatusRejected, ReturnStatusApproved},
		{ReturnStatusRefunded, ReturnStatusReceived},
		{ReturnStatusPending, ReturnStatusReceived},
		{ReturnStatusPending, ReturnStatusRefunded},
		{ReturnStatusReceived, ReturnStatusApproved},
	}
	for _, tr := range denied {
		assert.False(t, CanTransitionReturn(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}
}

func TestReturnOpenBlocksNewRequest(t *testing.T) {
	assert.True(t, ReturnOpen(ReturnStatusPending))
	assert.True(t, ReturnOpen(ReturnStatusApproved))
	assert.True(t, ReturnOpen(ReturnStatusReceived))
	assert.False(t, ReturnOpen(ReturnStatusRejected))
	assert.False(t, ReturnOpen(ReturnStatusRefunded))
}
