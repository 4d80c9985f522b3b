package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/acm19/imageshrink/internal/shrink"
)

// promptFactor asks for a reduction factor on out and reads the answer from in.
// It returns shrink.NoFactor when the input ends before an answer is given.
func promptFactor(in io.Reader, out io.Writer) shrink.Factor {
	fmt.Fprintf(out, "Choose size to shrink by %v (default %v): ", shrink.Choices, shrink.Choices[0])

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return shrink.NoFactor
	}
	return parseFactor(line)
}

// parseFactor converts an answer to a factor. Blank picks the default choice;
// anything that is not a positive number is shrink.NoFactor.
func parseFactor(s string) shrink.Factor {
	s = strings.TrimSpace(s)
	if s == "" {
		return shrink.Choices[0]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || shrink.Factor(v).Validate() != nil {
		return shrink.NoFactor
	}
	return shrink.Factor(v)
}
