package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/relay/internal/domain/relay"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// readLimited reads r fully, failing with relay.ErrBodyTooLarge past limit.
// A limit of zero or less reads without bound.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, relay.ErrBodyTooLarge
	}
	return b, nil
}

// decodeContent removes the content codings listed in header (applied in
// order, so undone in reverse). It reports false and returns body unchanged
// when there is nothing to do, a coding is unknown or the data is corrupt.
func decodeContent(body []byte, header string, limit int64) ([]byte, bool, error) {
	codings := parseCodings(header)
	if len(codings) == 0 || len(body) == 0 {
		return body, false, nil
	}

	out := body
	for i := len(codings) - 1; i >= 0; i-- {
		rc, err := newDecoder(codings[i], out)
		if err != nil {
			return body, false, nil
		}

		decoded, err := readLimited(rc, limit)
		rc.Close()
		if errors.Is(err, relay.ErrBodyTooLarge) {
			return nil, false, fmt.Errorf("decoding %s body: %w", codings[i], err)
		}
		if err != nil {
			return body, false, nil
		}
		out = decoded
	}
	return out, true, nil
}

func parseCodings(header string) []string {
	var codings []string
	for _, part := range strings.Split(header, ",") {
		c := strings.ToLower(strings.TrimSpace(part))
		if c == "" || c == "identity" {
			continue
		}
		codings = append(codings, c)
	}
	return codings
}

type unknownCodingError string

func (e unknownCodingError) Error() string {
	return "unknown content coding " + string(e)
}

func newDecoder(coding string, data []byte) (io.ReadCloser, error) {
	switch coding {
	case "gzip", "x-gzip":
		return gzip.NewReader(bytes.NewReader(data))
	case "deflate":
		// Servers disagree on zlib-wrapped vs raw deflate.
		if rc, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			return rc, nil
		}
		return flate.NewReader(bytes.NewReader(data)), nil
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case "br":
		return io.NopCloser(brotli.NewReader(bytes.NewReader(data))), nil
	default:
		return nil, unknownCodingError(coding)
	}
}
