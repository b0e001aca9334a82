package console

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
)

// minCharsetConfidence is the chardet score below which a non-UTF-8 body is
// shown as binary
const minCharsetConfidence = 50

var prettyJSON = sonic.Config{UseNumber: true, SortMapKeys: true}.Froze()

// Render writes a human-readable view of a relay reply
func Render(w io.Writer, reply *Reply) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  (%s)\n", statusLine(reply), reply.Elapsed.Round(time.Millisecond))

	if failure, ok := reply.Failure(); ok {
		fmt.Fprintf(&b, "%s: %s\n", reply.ErrorKind(), failure.Error)
		if failure.Details != "" {
			fmt.Fprintf(&b, "  %s\n", failure.Details)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	writeHeaders(&b, reply)
	b.WriteString("\n")
	b.WriteString(FormatBody(reply.Header.Get("Content-Type"), reply.Body))
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func statusLine(reply *Reply) string {
	if reply.Status != "" {
		return reply.Status
	}
	return fmt.Sprintf("%d", reply.StatusCode)
}

func writeHeaders(b *strings.Builder, reply *Reply) {
	names := make([]string, 0, len(reply.Header))
	for name := range reply.Header {
		if name == HeaderErrorKind {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range reply.Header[name] {
			fmt.Fprintf(b, "%s: %s\n", name, value)
		}
	}
}

// FormatBody renders a response body for display. JSON is pretty-printed,
// text is shown as-is and anything else is summarized.
func FormatBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return "(empty body)"
	}

	var notes []string
	if contentType == "" {
		notes = append(notes, "detected type: "+mimetype.Detect(body).String())
	}

	text, ok := pretty(body)
	if !ok {
		text, ok = decodeText(body, &notes)
	}
	if !ok {
		text = fmt.Sprintf("(%d bytes of binary data)", len(body))
	}

	if len(notes) == 0 {
		return text
	}
	return "[" + strings.Join(notes, "; ") + "]\n" + text
}

func pretty(body []byte) (string, bool) {
	if !sonic.Valid(body) {
		return "", false
	}
	var v interface{}
	if err := prettyJSON.Unmarshal(body, &v); err != nil {
		return "", false
	}
	out, err := prettyJSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeText(body []byte, notes *[]string) (string, bool) {
	if utf8.Valid(body) {
		return string(body), true
	}

	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil || result == nil || result.Confidence < minCharsetConfidence {
		return "", false
	}
	*notes = append(*notes, "charset: "+strings.ToLower(result.Charset))
	return strings.ToValidUTF8(string(body), "\uFFFD"), true
}
