package problem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/pinroute/spatial"
)

// readPhase tracks progress through the fixed file layout.
type readPhase int

const (
	phaseGridSize readPhase = iota
	phaseObsCount
	phaseObsCells
	phasePinSetCount
	phasePinSets
	phaseFinished
)

// ReadFile parses the problem file at path. See Read.
func ReadFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("problem: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a problem from r. Blank lines are skipped; any malformed
// line or a declared count disagreeing with the parsed content yields
// an ErrBadFormat- or ErrCountMismatch-wrapped error. The parsed
// problem is additionally validated before being returned.
func Read(r io.Reader) (*Problem, error) {
	p := &Problem{}
	phase := phaseGridSize
	remainingObs := 0
	remainingSets := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch phase {
		case phaseGridSize:
			x, y, err := parseIntPair(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: grid size line %q", ErrBadFormat, line)
			}
			p.DimX, p.DimY = x, y
			phase = phaseObsCount
		case phaseObsCount:
			n, err := parseInt(fields)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: obstruction count line %q", ErrBadFormat, line)
			}
			remainingObs = n
			if remainingObs == 0 {
				phase = phasePinSetCount
			} else {
				phase = phaseObsCells
			}
		case phaseObsCells:
			x, y, err := parseIntPair(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: obstruction line %q", ErrBadFormat, line)
			}
			p.Obstructions = append(p.Obstructions, spatial.NewCoord(x, y))
			if remainingObs--; remainingObs == 0 {
				phase = phasePinSetCount
			}
		case phasePinSetCount:
			n, err := parseInt(fields)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: pin set count line %q", ErrBadFormat, line)
			}
			remainingSets = n
			if remainingSets == 0 {
				phase = phaseFinished
			} else {
				phase = phasePinSets
			}
		case phasePinSets:
			set, err := parsePinSet(fields)
			if err != nil {
				return nil, err
			}
			p.PinSets = append(p.PinSets, set)
			if remainingSets--; remainingSets == 0 {
				phase = phaseFinished
			}
		case phaseFinished:
			// trailing content is ignored
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("problem: read: %w", err)
	}
	if phase != phaseFinished {
		return nil, fmt.Errorf("%w: unexpected end of file", ErrBadFormat)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parsePinSet parses "k x1 y1 ... xk yk", checking the declared pin
// count against the coordinates actually present.
func parsePinSet(fields []string) (spatial.PinSet, error) {
	if len(fields) < 1 {
		return nil, fmt.Errorf("%w: empty pin set line", ErrBadFormat)
	}
	k, err := strconv.Atoi(fields[0])
	if err != nil || k <= 0 {
		return nil, fmt.Errorf("%w: pin count %q", ErrBadFormat, fields[0])
	}
	coords := fields[1:]
	if len(coords)%2 != 0 {
		return nil, fmt.Errorf("%w: dangling coordinate in pin set line", ErrBadFormat)
	}
	set := make(spatial.PinSet, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		x, errX := strconv.Atoi(coords[i])
		y, errY := strconv.Atoi(coords[i+1])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: pin coordinate %q %q", ErrBadFormat, coords[i], coords[i+1])
		}
		set = append(set, spatial.NewCoord(x, y))
	}
	if len(set) != k {
		return nil, fmt.Errorf("%w: %d pins declared, %d parsed", ErrCountMismatch, k, len(set))
	}
	return set, nil
}

func parseInt(fields []string) (int, error) {
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: expected a single integer", ErrBadFormat)
	}
	return strconv.Atoi(fields[0])
}

func parseIntPair(fields []string) (int, int, error) {
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: expected two integers", ErrBadFormat)
	}
	a, errA := strconv.Atoi(fields[0])
	b, errB := strconv.Atoi(fields[1])
	if errA != nil || errB != nil {
		return 0, 0, fmt.Errorf("%w: non-integer field", ErrBadFormat)
	}
	return a, b, nil
}
