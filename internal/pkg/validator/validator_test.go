package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofusion-service/internal/pkg/errors"
)

type layerRequest struct {
	Layer    string  `validate:"required,layer"`
	RadiusKm float64 `validate:"required,min=0.1,max=100"`
}

func TestValidate(t *testing.T) {
	t.Run("known layer", func(t *testing.T) {
		assert.NoError(t, Validate(&layerRequest{Layer: "church", RadiusKm: 1}))
	})

	t.Run("unknown layer", func(t *testing.T) {
		err := Validate(&layerRequest{Layer: "volcano", RadiusKm: 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

		appErr, ok := errors.As(err)
		require.True(t, ok)
		fields := appErr.Details["fields"].(map[string]interface{})
		assert.Equal(t, "layer", fields["Layer"])
	})

	t.Run("radius out of range", func(t *testing.T) {
		err := Validate(&layerRequest{Layer: "water", RadiusKm: 500})
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	})
}
