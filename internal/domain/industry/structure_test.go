package industry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

func TestNewStructure_RigLevels(t *testing.T) {
	tests := []struct {
		name     string
		material int
		time     int
		wantKind string
	}{
		{name: "none", material: 0, time: 0},
		{name: "t2", material: 2, time: 2},
		{name: "material too high", material: 3, time: 0, wantKind: "material"},
		{name: "time negative", material: 1, time: -1, wantKind: "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			s, err := industry.NewStructure(1, "Raitaru", industry.StructureRaitaru, 30000142, tt.material, tt.time)

			// Assert
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.material, s.MaterialRig)
				assert.Equal(t, tt.time, s.TimeRig)
				return
			}
			var rigErr *industry.ErrInvalidRigLevel
			require.True(t, errors.As(err, &rigErr))
			assert.Equal(t, tt.wantKind, rigErr.Kind)
		})
	}
}

func TestStructure_RigMaterialEffImproves(t *testing.T) {
	// Arrange
	s, err := industry.NewStructure(1, "Raitaru", industry.StructureRaitaru, 30000142, 0, 0)
	require.NoError(t, err)
	none := s.RigMaterialEff()

	// Act
	require.NoError(t, s.SetRigs(1, 0))
	t1 := s.RigMaterialEff()
	require.NoError(t, s.SetRigs(2, 0))
	t2 := s.RigMaterialEff()

	// Assert
	assert.Equal(t, 1.0, none)
	assert.Less(t, t1, none)
	assert.Less(t, t2, t1)
}
