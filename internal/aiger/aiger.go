// Package aiger reads and writes the binary AIGER format: the external
// I/O collaborator the core never imports from. Only the CLI entry
// point touches both this package and the core.
package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"aigrewrite/internal/maig"
)

// Read parses a binary AIGER stream: the "aig M I L O A" ASCII header,
// one output literal per line, then a delta-coded binary AND section.
// Latches (L) must be zero — the core is not a sequential optimizer.
func Read(r io.Reader) (*maig.MAIG, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "aiger: reading header")
	}
	fields := strings.Fields(header)
	if len(fields) != 6 || fields[0] != "aig" {
		return nil, errors.Errorf("aiger: malformed header %q", strings.TrimSpace(header))
	}
	m, i, l, o, a, err := parseHeaderInts(fields[1:])
	if err != nil {
		return nil, errors.Wrap(err, "aiger: header fields")
	}
	if l != 0 {
		return nil, errors.New("aiger: latches are not supported, the rewriter is combinational-only")
	}
	if i+a != m {
		return nil, errors.Errorf("aiger: M=%d does not equal I+A=%d", m, i+a)
	}

	outputs := make([]maig.Lit, o)
	for j := 0; j < o; j++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "aiger: reading output %d", j)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "aiger: output %d literal", j)
		}
		outputs[j] = maig.Lit(v)
	}

	andFanins := make([][2]maig.Lit, a)
	for j := 0; j < a; j++ {
		rhs0, err := readDelta(br)
		if err != nil {
			return nil, errors.Wrapf(err, "aiger: AND %d delta 0", j)
		}
		rhs1, err := readDelta(br)
		if err != nil {
			return nil, errors.Wrapf(err, "aiger: AND %d delta 1", j)
		}
		lhs := uint64(2 * (1 + i + j))
		l0 := lhs - rhs0
		l1 := l0 - rhs1
		andFanins[j] = [2]maig.Lit{maig.Lit(l0), maig.Lit(l1)}
	}

	result, err := maig.FromTwoInput(i, andFanins, outputs)
	if err != nil {
		return nil, errors.Wrap(err, "aiger: building graph")
	}
	return result, nil
}

func parseHeaderInts(fields []string) (m, i, l, o, a int, err error) {
	vals := make([]int, len(fields))
	for idx, f := range fields {
		v, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, 0, 0, 0, errors.Wrapf(convErr, "field %d", idx)
		}
		vals[idx] = v
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], nil
}

// readDelta reads one AIGER variable-length delta-coded integer: 7 bits
// per byte, little-endian, high bit set means more bytes follow.
func readDelta(br *bufio.Reader) (uint64, error) {
	var x uint64
	for shift := uint(0); ; shift += 7 {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
	}
	return x, nil
}

// Write emits m as a binary AIGER stream.
func Write(w io.Writer, m *maig.MAIG) error {
	andFanins, outputs, err := m.ToTwoInput()
	if err != nil {
		return errors.Wrap(err, "aiger: converting to two-input form")
	}
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "aig %d %d 0 %d %d\n", m.NumIns+len(andFanins), m.NumIns, len(outputs), len(andFanins)); err != nil {
		return errors.Wrap(err, "aiger: writing header")
	}
	for _, lit := range outputs {
		if _, err := fmt.Fprintf(bw, "%d\n", lit); err != nil {
			return errors.Wrap(err, "aiger: writing output")
		}
	}
	for j, pair := range andFanins {
		lhs := uint64(2 * (1 + m.NumIns + j))
		l0, l1 := uint64(pair[0]), uint64(pair[1])
		if l0 < l1 {
			l0, l1 = l1, l0
		}
		if err := writeDelta(bw, lhs-l0); err != nil {
			return errors.Wrap(err, "aiger: writing AND delta 0")
		}
		if err := writeDelta(bw, l0-l1); err != nil {
			return errors.Wrap(err, "aiger: writing AND delta 1")
		}
	}
	return bw.Flush()
}

func writeDelta(bw *bufio.Writer, x uint64) error {
	for {
		b := byte(x & 0x7f)
		x >>= 7
		if x != 0 {
			b |= 0x80
		}
		if err := bw.WriteByte(b); err != nil {
			return err
		}
		if x == 0 {
			return nil
		}
	}
}
