package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/sdnode/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name    string
		noColor string
		force   string
		want    termenv.Profile
	}{
		{name: "no color wins", noColor: "1", force: "1", want: termenv.Ascii},
		{name: "forced", force: "1", want: termenv.ANSI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(output.NoColorEnv, tt.noColor)
			t.Setenv(output.ForceColorEnv, tt.force)
			assert.Equal(t, tt.want, output.ColorProfile())
		})
	}
}

func TestColorProfile_Detected(t *testing.T) {
	t.Setenv(output.NoColorEnv, "")
	t.Setenv(output.ForceColorEnv, "0")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv(output.NoColorEnv, "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())

	t.Setenv(output.NoColorEnv, "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNewWithProfile_NilWriter(t *testing.T) {
	assert.NotNil(t, output.NewWithProfile(nil, output.ColorProfileANSI))
}
