package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "verifyhr/pkg/domain-errors"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveFingerprintDeterminism(t *testing.T) {
	base := Attributes{
		FullName:       "Jane Doe",
		DateOfBirth:    date("1990-05-01"),
		DocumentNumber: "X123",
	}

	fp1, err := DeriveFingerprint(base)
	require.NoError(t, err)
	fp2, err := DeriveFingerprint(base)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, string(fp1), 64)

	t.Run("whitespace and case are normalized away", func(t *testing.T) {
		messy := Attributes{
			FullName:       "  JANE doe ",
			DateOfBirth:    date("1990-05-01"),
			DocumentNumber: " x123  ",
		}
		fp, err := DeriveFingerprint(messy)
		require.NoError(t, err)
		assert.Equal(t, fp1, fp)
	})

	t.Run("single character change produces a different fingerprint", func(t *testing.T) {
		changed := base
		changed.DocumentNumber = "X124"
		fp, err := DeriveFingerprint(changed)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp)
	})

	t.Run("raw digest round-trips", func(t *testing.T) {
		raw, err := fp1.Bytes()
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})
}

func TestDeriveFingerprintValidation(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attributes
	}{
		{
			name: "empty name after trimming",
			attrs: Attributes{
				FullName:       "   ",
				DateOfBirth:    date("1990-05-01"),
				DocumentNumber: "X123",
			},
		},
		{
			name: "empty document number",
			attrs: Attributes{
				FullName:       "Jane Doe",
				DateOfBirth:    date("1990-05-01"),
				DocumentNumber: "",
			},
		},
		{
			name: "zero date of birth",
			attrs: Attributes{
				FullName:       "Jane Doe",
				DocumentNumber: "X123",
			},
		},
		{
			name: "birth year before 1900",
			attrs: Attributes{
				FullName:       "Jane Doe",
				DateOfBirth:    date("1899-12-31"),
				DocumentNumber: "X123",
			},
		},
		{
			name: "birth year in the future",
			attrs: Attributes{
				FullName:       "Jane Doe",
				DateOfBirth:    time.Now().AddDate(2, 0, 0),
				DocumentNumber: "X123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveFingerprint(tt.attrs)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
