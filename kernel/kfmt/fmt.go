package kfmt

import (
	"io"
	"unsafe"
)

// scratchSize is large enough to hold a fully padded 64-bit value in any of
// the supported bases.
const scratchSize = 32

var (
	missingArg = []byte("%!(MISSING)")
	wrongType  = []byte("%!(WRONGTYPE)")
	noVerb     = []byte("%!(NOVERB)")
	extraArg   = []byte("%!(EXTRA)")
	trueValue  = []byte("true")
	falseValue = []byte("false")

	// scratch is the shared buffer where numeric arguments get formatted.
	scratch [scratchSize]byte

	// oneByte is a shared buffer for passing single characters to doWrite.
	oneByte = []byte{0}

	// earlyBuf is a ring buffer that captures Printf output emitted before
	// an output sink has been registered.
	earlyBuf ringBuffer

	// outputSink is the io.Writer where Printf sends its output. While nil,
	// output is redirected to earlyBuf.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w and drains any data
// accumulated while no sink was registered into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuf)
	}
}

// GetOutputSink returns the io.Writer that currently receives Printf output.
// If no sink has been registered yet, the early ring buffer is returned.
func GetOutputSink() io.Writer {
	if outputSink == nil {
		return &earlyBuf
	}

	return outputSink
}

// Printf provides a minimal Printf implementation that is safe to use before
// the Go runtime has been fully initialized. It does not allocate.
//
// The following subset of formatting verbs is supported:
//
// Strings:
//		%s the uninterpreted bytes of the string or byte slice
//
// Integers:
//              %o base 8
//              %d base 10
//              %x base 16, with lower-case letters for a-f
//
// Booleans:
//              %t "true" or "false"
//
// A verb may be preceded by a decimal width. Strings and base-10 integers
// shorter than the width are left-padded with spaces, base-8 and base-16
// integers with zeroes.
//
// Pointer verbs are intentionally unsupported: formatting a pointer drags in
// the reflect package which makes the compiler emit runtime.convT2E calls,
// and those allocate.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var argIndex int

	for i := 0; i < len(format); {
		if format[i] != '%' {
			writeByte(w, format[i])
			i++
			continue
		}

		// Scan the optional width followed by the verb.
		i++
		padLen := 0
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			padLen = padLen*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, noVerb)
			break
		}

		verb := format[i]
		i++

		if verb == '%' {
			writeByte(w, '%')
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, missingArg)
			continue
		}
		arg := args[argIndex]
		argIndex++

		switch verb {
		case 'o':
			fmtInt(w, arg, 8, padLen)
		case 'd':
			fmtInt(w, arg, 10, padLen)
		case 'x':
			fmtInt(w, arg, 16, padLen)
		case 's':
			fmtString(w, arg, padLen)
		case 't':
			fmtBool(w, arg)
		default:
			doWrite(w, noVerb)
		}
	}

	// Flag any unconsumed args.
	for ; argIndex < len(args); argIndex++ {
		doWrite(w, extraArg)
	}
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	bVal, ok := v.(bool)
	if !ok {
		doWrite(w, wrongType)
		return
	}

	if bVal {
		doWrite(w, trueValue)
	} else {
		doWrite(w, falseValue)
	}
}

// fmtString prints a formatted version of string or []byte value v, applying
// the padding specified by padLen.
func fmtString(w io.Writer, v interface{}, padLen int) {
	switch sVal := v.(type) {
	case string:
		for i := len(sVal); i < padLen; i++ {
			writeByte(w, ' ')
		}
		// Converting the string to a byte slice would allocate; emit it
		// one byte at a time instead.
		for i := 0; i < len(sVal); i++ {
			writeByte(w, sVal[i])
		}
	case []byte:
		for i := len(sVal); i < padLen; i++ {
			writeByte(w, ' ')
		}
		doWrite(w, sVal)
	default:
		doWrite(w, wrongType)
	}
}

// fmtInt prints a formatted version of v in the requested base, applying the
// padding specified by padLen. All built-in signed and unsigned integer types
// are supported.
func fmtInt(w io.Writer, v interface{}, base, padLen int) {
	var (
		uval uint64
		neg  bool
	)

	switch val := v.(type) {
	case uint:
		uval = uint64(val)
	case uint8:
		uval = uint64(val)
	case uint16:
		uval = uint64(val)
	case uint32:
		uval = uint64(val)
	case uint64:
		uval = val
	case uintptr:
		uval = uint64(val)
	case int:
		neg, uval = fold(int64(val))
	case int8:
		neg, uval = fold(int64(val))
	case int16:
		neg, uval = fold(int64(val))
	case int32:
		neg, uval = fold(int64(val))
	case int64:
		neg, uval = fold(val)
	default:
		doWrite(w, wrongType)
		return
	}

	if padLen >= scratchSize {
		padLen = scratchSize - 1
	}

	// Format the digits into the tail of the scratch buffer.
	pos := scratchSize
	for {
		pos--
		digit := byte(uval % uint64(base))
		if digit < 10 {
			scratch[pos] = '0' + digit
		} else {
			scratch[pos] = 'a' + digit - 10
		}

		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	if base == 10 {
		// Space padding goes before the sign.
		if neg {
			pos--
			scratch[pos] = '-'
		}
		for scratchSize-pos < padLen {
			pos--
			scratch[pos] = ' '
		}
	} else {
		// Zero padding goes between the sign and the digits.
		if neg && padLen > 0 {
			padLen--
		}
		for scratchSize-pos < padLen {
			pos--
			scratch[pos] = '0'
		}
		if neg {
			pos--
			scratch[pos] = '-'
		}
	}

	doWrite(w, scratch[pos:])
}

// fold splits a signed value into its sign and magnitude.
func fold(v int64) (neg bool, uval uint64) {
	if v < 0 {
		return true, uint64(-v)
	}

	return false, uint64(v)
}

func writeByte(w io.Writer, b byte) {
	oneByte[0] = b
	doWrite(w, oneByte)
}

// doWrite routes p to either w or the early ring buffer. The pointer to p is
// laundered through noEscape so the compiler does not flag p as escaping into
// the unknown io.Writer; an escape here would force every caller to allocate
// which must not happen before the Go allocator is ready.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyBuf.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go.
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
