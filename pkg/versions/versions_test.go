package versions

import (
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrim(t *testing.T) {
	assert.Equal(t, "20.0.0", Trim("v20.0.0"))
	assert.Equal(t, "20.0.0", Trim(" V20.0.0 "))
	assert.Equal(t, "8.5.0", Trim("8.5.0"))
	assert.Equal(t, "", Trim(""))
}

func TestSort(t *testing.T) {
	vs := []string{"10.0.0", "9.1.0", "latest", "v18.2.0", "9.1.0-rc.1", "2.0.0"}
	Sort(vs)
	assert.Equal(t, []string{"2.0.0", "9.1.0-rc.1", "9.1.0", "10.0.0", "v18.2.0", "latest"}, vs)
}

func TestPrereleaseAndValid(t *testing.T) {
	assert.True(t, IsPrerelease("4.0.0-rc.1"))
	assert.False(t, IsPrerelease("4.0.0"))
	assert.False(t, IsPrerelease("garbage"))
	assert.True(t, Valid("v1.22.19"))
	assert.False(t, Valid("one.two"))
}

func TestBelow(t *testing.T) {
	boundary := goversion.Must(goversion.NewVersion("2.0.0"))

	tests := []struct {
		v    string
		want bool
	}{
		{"1.22.19", true},
		{"1.99.99", true},
		{"2.0.0-rc.1", true},
		{"2.0.0", false},
		{"4.1.0", false},
	}
	for _, tt := range tests {
		got, err := Below(tt.v, boundary)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.v)
	}

	_, err := Below("abc", boundary)
	assert.Error(t, err)
}
