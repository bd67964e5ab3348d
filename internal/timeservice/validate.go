package timeservice

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/screentime/internal/apperr"
	"github.com/starford/screentime/internal/models"
)

// maxTextLength matches the VARCHAR(255) columns.
const maxTextLength = 255

func validateNewAdjustmentType(in *models.NewAdjustmentType) error {
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.ValidateStruct(in,
		validation.Field(&in.Description, validation.Required, validation.RuneLength(1, maxTextLength)),
	); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalid, err.Error())
	}
	return nil
}

func validateNewAdjustment(in *models.NewAdjustment) error {
	if in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		if c == "" {
			in.Comment = nil
		} else {
			in.Comment = &c
		}
	}
	if err := validation.ValidateStruct(in,
		validation.Field(&in.AdjustmentTypeID, validation.Required),
		validation.Field(&in.Comment, validation.RuneLength(0, maxTextLength)),
	); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalid, err.Error())
	}
	return nil
}
