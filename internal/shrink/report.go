package shrink

import (
	"fmt"
	"strings"
)

// NoImagesMessage is shown when not a single file could be shrunk.
const NoImagesMessage = "Could not shrink any images - imageShrink works on JPEG (.jpg and .jpeg), PNG (.png) and bitmap (.bmp) files only"

// Report aggregates the outcomes of one batch run.
type Report struct {
	Factor       Factor
	SuccessCount int
	FailCount    int
	// Succeeded and Failed hold display names in processing order.
	Succeeded []string
	Failed    []string
	// Outputs holds the paths written, in processing order.
	Outputs     []string
	InputBytes  int64
	OutputBytes int64
}

func (r *Report) add(o Outcome) {
	if !o.OK() {
		r.FailCount++
		r.Failed = append(r.Failed, o.Name)
		return
	}
	r.SuccessCount++
	r.Succeeded = append(r.Succeeded, o.Name)
	r.Outputs = append(r.Outputs, o.Output)
	r.InputBytes += o.InputBytes
	r.OutputBytes += o.OutputBytes
}

// FailureText lists the files that could not be shrunk, or returns "" when there are none.
func (r Report) FailureText() string {
	if r.FailCount == 0 {
		return ""
	}
	return fmt.Sprintf("\n\nUnable to shrink %d %s:%s", r.FailCount, plural(r.FailCount), nameLines(r.Failed))
}

// SuccessText lists the shrunken files followed by FailureText.
func (r Report) SuccessText() string {
	if r.SuccessCount == 0 {
		return NoImagesMessage
	}
	return fmt.Sprintf("Successfully shrunk %d %s (by a factor of %s):%s%s",
		r.SuccessCount, plural(r.SuccessCount), r.Factor, nameLines(r.Succeeded), r.FailureText())
}

// String returns the full report text for display.
func (r Report) String() string {
	return r.SuccessText()
}

func plural(n int) string {
	if n > 1 {
		return "files"
	}
	return "file"
}

func nameLines(names []string) string {
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("\n")
		sb.WriteString(name)
	}
	return sb.String()
}
