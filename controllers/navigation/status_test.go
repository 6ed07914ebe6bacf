package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"sonora/blueprint"
	"sonora/playback"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{blueprint.EINVALIDROUTE, http.StatusBadRequest},
		{fmt.Errorf("track 4: %w", blueprint.ENOTFOUND), http.StatusNotFound},
		{blueprint.EWRONGSCREEN, http.StatusConflict},
		{playback.ErrSuperseded, http.StatusConflict},
		{playback.ErrReleased, http.StatusGone},
		{playback.ENotPlayable(3), http.StatusUnprocessableEntity},
		{&blueprint.CatalogError{Kind: blueprint.ENETWORK, Op: "track"}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
