package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitmentCanReview(t *testing.T) {
	assert.NoError(t, Commitment{Status: CommitmentPending}.CanReview())

	err := Commitment{Status: CommitmentApproved}.CanReview()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "approved")

	assert.Error(t, Commitment{Status: CommitmentRejected}.CanReview())
}
