package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mrops-br/product-showcase-api/internal/app/service"
	"github.com/mrops-br/product-showcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrSlotNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %q", domain.ErrUnknownField, "sku"), http.StatusBadRequest},
		{domain.ErrNotEditing, http.StatusConflict},
		{fmt.Errorf("%w: price field is hidden", domain.ErrNotEditing), http.StatusConflict},
		{domain.ErrNoKeyboardSession, http.StatusConflict},
		{service.ErrAlreadyLoaded, http.StatusConflict},
		{domain.ErrEditingDisabled, http.StatusUnprocessableEntity},
		{domain.ErrKeyboardBusy, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
