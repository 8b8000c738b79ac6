package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStdinEvaluatesAndWrites(t *testing.T) {
	var out, errs bytes.Buffer
	in, err := New(DefaultOptions(), &out)
	require.NoError(t, err)

	src := strings.NewReader(`(write (+ 1 2 3)) (newline) (write (* 2 3))`)
	require.NoError(t, in.RunStdin(src, &errs))
	require.Zero(t, errs.Len(), "unexpected diagnostics: %s", errs.String())
	require.Equal(t, "6\n6", out.String())
}

// TestRecoverableErrorLetsLoopContinue exercises the §7 contract: a
// recoverable error (here, an unbound variable) must not stop the loop,
// and the heap must still be usable for the forms that follow it.
func TestRecoverableErrorLetsLoopContinue(t *testing.T) {
	var out, errs bytes.Buffer
	in, err := New(DefaultOptions(), &out)
	require.NoError(t, err)

	src := strings.NewReader(`totally-unbound-thing (write (+ 40 2))`)
	require.NoError(t, in.RunStdin(src, &errs), "an unbound variable must not be treated as fatal")
	require.NotZero(t, errs.Len(), "expected a diagnostic for the unbound variable")
	require.Equal(t, "42", out.String())
}

func TestGCStatReflectsActivity(t *testing.T) {
	var out bytes.Buffer
	in, err := New(DefaultOptions(), &out)
	require.NoError(t, err)

	pairFree, _, _, _ := in.GCStat()
	require.NoError(t, in.RunStdin(strings.NewReader(`(define p (cons 1 2))`), &bytes.Buffer{}))
	after, _, _, _ := in.GCStat()
	require.Less(t, after, pairFree, "expected pair-free count to drop after allocating")
}
