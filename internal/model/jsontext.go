package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// StringifyJSON re-encodes a JSON document as a parsed value prints: no
// insignificant whitespace, strings with only the required escapes, numbers in
// shortest form. Object keys keep document order.
func StringifyJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writeValue(dec, &buf); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return buf.Bytes(), nil
}

func writeValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		return writeContainer(dec, buf, t)
	case string:
		return writeJSONString(buf, t)
	case json.Number:
		buf.WriteString(formatNumber(t))
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case nil:
		buf.WriteString("null")
	}
	return nil
}

func writeContainer(dec *json.Decoder, buf *bytes.Buffer, open json.Delim) error {
	object := open == '{'
	if object {
		buf.WriteByte('{')
	} else {
		buf.WriteByte('[')
	}

	for first := true; dec.More(); first = false {
		if !first {
			buf.WriteByte(',')
		}
		if object {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if err := writeJSONString(buf, tok.(string)); err != nil {
				return err
			}
			buf.WriteByte(':')
		}
		if err := writeValue(dec, buf); err != nil {
			return err
		}
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return err
	}
	if object {
		buf.WriteByte('}')
	} else {
		buf.WriteByte(']')
	}
	return nil
}

// formatNumber prints n the way a double is printed in JSON text: integers
// without a fraction, plain notation in [1e-6, 1e21), otherwise an exponent
// without leading zeros. Out-of-range values become null.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return string(n)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
