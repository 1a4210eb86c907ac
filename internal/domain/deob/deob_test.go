package deob

import (
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/unrotate/internal/model"
)

func TestDeobfuscateBasic(t *testing.T) {
	text := readExample(t, "basic")

	res, err := Deobfuscate(text, Options{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, `console.log("Hello","Hello",W(0x2));`)
	assert.Contains(t, res.Text, `parseInt(un(0x2),36)`)
	assert.Equal(t, 1, res.Stats.UniqueIndices)
	assert.Equal(t, 2, res.Stats.Aliases)
	assert.Equal(t, 2, res.Stats.CallSites)

	insp := res.Inspection
	assert.Equal(t, "Q", insp.Decoder)
	assert.Equal(t, int64(1), insp.Offset)
	assert.Equal(t, 1, insp.Rotations)
	assert.Equal(t, []string{"Q", "Z"}, insp.Aliases)
	if diff := cmp.Diff(m.StringTable{{Value: "World"}, {Value: "Hello"}}, insp.Table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestDeobfuscateObfuscatorOutput(t *testing.T) {
	text := readExample(t, "obfuscatorio")

	res, err := Deobfuscate(text, Options{})
	require.NoError(t, err)

	for _, line := range []string{
		`console["log"]("Helloé world");`,
		`console["warn"]("\"quoted\""+'!');`,
		`console["error"]("then\n");`,
		`console["info"]("Helloé world");`,
	} {
		assert.Contains(t, res.Text, line)
	}

	assert.Equal(t, 7, res.Stats.UniqueIndices)
	assert.Equal(t, 3, res.Stats.Aliases)
	assert.Equal(t, 8, res.Stats.CallSites)
	assert.Equal(t, int64(0x1a0), res.Inspection.Offset)
	assert.Equal(t, 5, res.Inspection.Rotations)

	// The bootstrap and the decoder body are left as they were.
	assert.Contains(t, res.Text, "parseInt(_0x1f0c(0x1a1))/0x1")
	assert.Contains(t, res.Text, "_0x3c1f49=_0x3c1f49-0x1a0")
	assert.Len(t, strings.Split(res.Text, "\n"), len(strings.Split(text, "\n")))
}

func TestDeobfuscateModule(t *testing.T) {
	res, err := Deobfuscate(StripExports(readExample(t, "esm")), Options{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, `return "World"+" "+"Hello";`)
	assert.NotContains(t, res.Text, "export")
	assert.Equal(t, []string{"Q", "un"}, res.Inspection.Aliases)
}

func TestDeobfuscateIsIdempotentOnInput(t *testing.T) {
	text := readExample(t, "obfuscatorio")

	first, err := Deobfuscate(text, Options{})
	require.NoError(t, err)

	second, err := Deobfuscate(text, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestDeobfuscateWithDecoderName(t *testing.T) {
	res, err := Deobfuscate(readExample(t, "basic"), Options{DecoderName: "Q"})
	require.NoError(t, err)
	assert.Equal(t, "Q", res.Inspection.Decoder)

	_, err = Deobfuscate(readExample(t, "basic"), Options{DecoderName: "Missing"})
	assert.ErrorIs(t, err, ErrOffsetNotFound)
}

func TestDeobfuscatePlainIndexDecoder(t *testing.T) {
	text := `function A(){const x=['\x48ello','World'];A=function(){return x;};return A();}` + "\n" +
		`function Q(p){const r=A();return r[p-0x1];}` + "\n" +
		`(function(a,O){const un=Q,t=a();while(!![]){try{const K=(parseInt(un(0x2),36)+0x1)%0x2;` +
		`if(K===O)break;else t['push'](t['shift']());}catch(e){t['push'](t['shift']());}}}(A,0x1));` + "\n" +
		`var Z=Q;` + "\n" +
		`console.log(Q(0x2),Z(0x2));` + "\n"

	res, err := Deobfuscate(text, Options{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, `console.log("Hello","Hello");`)
	assert.Equal(t, "Q", res.Inspection.Decoder)
	assert.Equal(t, int64(1), res.Inspection.Offset)
	assert.Equal(t, 1, res.Inspection.Rotations)
}

func TestDeobfuscateFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts Options
		want error
	}{
		{"plain script", `console.log("hi");`, Options{}, ErrOffsetNotFound},
		{"decoder without bootstrap", `function Q(p){p=p-0x1;return A()[p];}`, Options{}, ErrBootstrapNotFound},
		{
			"provider without array",
			`function A(){return x;}function Q(p){p=p-0x1;return A()[p];}` +
				`(function(a,b){const c=parseInt(Q(0x1));if(c===b)return;}(A,0x1));`,
			Options{},
			ErrArrayLiteralNotFound,
		},
		{
			"checksum never reached",
			`function A(){const x=['1','2'];return x;}function Q(p){p=p-0x1;return A()[p];}` +
				`(function(a,b){const c=parseInt(Q(0x1));if(c===b)return;}(A,0x9));`,
			Options{},
			ErrRotationDidNotConverge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Deobfuscate(tt.text, tt.opts)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, res)
		})
	}
}

func TestAnalyzeLogsSteps(t *testing.T) {
	handler := memory.New()
	logger := &log.Logger{Handler: handler, Level: log.DebugLevel}

	insp, err := Analyze(readExample(t, "basic"), Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, "A", insp.Bootstrap.ArrayProvider)

	var messages []string
	for _, e := range handler.Entries {
		messages = append(messages, e.Message)
	}

	assert.Equal(t, []string{
		"decoder located",
		"bootstrap located",
		"string table extracted",
		"rotation converged",
	}, messages)
}
