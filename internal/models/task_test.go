package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsEmptySlices(t *testing.T) {
	task := Task{
		ID:          "a",
		Tags:        []string{},
		Comments:    []Comment{},
		Attachments: []Attachment{},
	}

	c := task.Clone()
	assert.NotNil(t, c.Tags)
	assert.NotNil(t, c.Comments)
	assert.NotNil(t, c.Attachments)
	assert.Nil(t, c.AssignedTo)
	assert.Nil(t, c.Watchers)
}

func TestCloneIsDeep(t *testing.T) {
	task := Task{ID: "a", Tags: []string{"work"}, EstimatedTime: IntPtr(30)}

	c := task.Clone()
	c.Tags[0] = "home"
	*c.EstimatedTime = 60

	assert.Equal(t, []string{"work"}, task.Tags)
	assert.Equal(t, 30, *task.EstimatedTime)
}
