package kfmt

import (
	"bytes"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	specs := []struct {
		writes []string
		exp    string
	}{
		{
			[]string{"init done\n"},
			"[pic] init done\n",
		},
		{
			[]string{"masks: ", "fb, ff\n", "remapped\n"},
			"[pic] masks: fb, ff\n[pic] remapped\n",
		},
		{
			[]string{"a\nb\nc"},
			"[pic] a\n[pic] b\n[pic] c",
		},
		{
			[]string{""},
			"",
		},
	}

	for specIndex, spec := range specs {
		var buf bytes.Buffer
		w := &PrefixWriter{Sink: &buf, Prefix: []byte("[pic] ")}

		var total int
		for _, chunk := range spec.writes {
			n, err := w.Write([]byte(chunk))
			if err != nil {
				t.Fatalf("[spec %d] %v", specIndex, err)
			}
			total += n
		}

		var expTotal int
		for _, chunk := range spec.writes {
			expTotal += len(chunk)
		}
		if total != expTotal {
			t.Errorf("[spec %d] expected reported byte count %d; got %d", specIndex, expTotal, total)
		}

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected output %q; got %q", specIndex, spec.exp, got)
		}
	}
}
