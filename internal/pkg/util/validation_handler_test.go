package util

import (
	"Devflow/internal/api/dto"
	"Devflow/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDTO(t *testing.T) {
	tests := []struct {
		name  string
		dto   any
		field string
		rule  string
	}{
		{
			name: "valid question",
			dto: &dto.AskQuestionDTO{
				Title:   "How do goroutines work",
				Content: "I would like to understand the scheduler.",
				Tags:    []string{"go", "concurrency"},
			},
		},
		{
			name:  "title too short",
			dto:   &dto.AskQuestionDTO{Title: "Hey", Content: "I would like to understand the scheduler.", Tags: []string{"go"}},
			field: "Title",
			rule:  "min",
		},
		{
			name:  "too many tags",
			dto:   &dto.AskQuestionDTO{Title: "Valid title", Content: "I would like to understand the scheduler.", Tags: []string{"aa", "bb", "cc", "dd", "ee", "ff"}},
			field: "Tags",
			rule:  "max",
		},
		{
			name:  "duplicate tags",
			dto:   &dto.AskQuestionDTO{Title: "Valid title", Content: "I would like to understand the scheduler.", Tags: []string{"go", "go"}},
			field: "Tags",
			rule:  "unique",
		},
		{
			name:  "tag too long",
			dto:   &dto.AskQuestionDTO{Title: "Valid title", Content: "I would like to understand the scheduler.", Tags: []string{"averyveryverylongtag"}},
			field: "Tags[0]",
			rule:  "max",
		},
		{
			name:  "blank tag",
			dto:   &dto.AskQuestionDTO{Title: "Valid title", Content: "I would like to understand the scheduler.", Tags: []string{"   "}},
			field: "Tags[0]",
			rule:  "notblank",
		},
		{
			name:  "short answer",
			dto:   &dto.CreateAnswerDTO{Content: "ok"},
			field: "Content",
			rule:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDTO(tt.dto)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.rule, ve.Rule)
		})
	}
}

func TestValidateUpdateUserSkipsNil(t *testing.T) {
	assert.NoError(t, ValidateDTO(&dto.UpdateUserDTO{}))

	bad := "not a url"
	var ve *service.ValidationError
	require.ErrorAs(t, ValidateDTO(&dto.UpdateUserDTO{PortfolioWebsite: &bad}), &ve)
	assert.Equal(t, "PortfolioWebsite", ve.Field)
}
