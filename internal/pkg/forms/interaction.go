package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ManuelReschke/HouseHub/internal/pkg/apperror"
)

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

func (f *CommentForm) Validate() error {
	f.Text = strings.TrimSpace(f.Text)
	return apperror.Validation(check(f))
}

type ReviewForm struct {
	Rating string `form:"rating"`
	Text   string `form:"text" validate:"required"`
}

// Clean returns the rating as a number between 1 and 5.
func (f *ReviewForm) Clean() (int, error) {
	f.Text = strings.TrimSpace(f.Text)
	fields := check(f)

	raw := strings.TrimSpace(f.Rating)
	rating := 0
	if raw == "" {
		fields.Add("rating", msgRequired)
	} else if n, err := strconv.Atoi(raw); err != nil || n < 1 || n > 5 {
		fields.Add("rating", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
	} else {
		rating = n
	}

	return rating, apperror.Validation(fields)
}
