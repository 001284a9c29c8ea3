package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.afab.re/maskbrush"
)

// replay runs each line of a script against an editor.
//
//	down X Y | move X Y | up | leave   pointer events
//	radius R                           brush radius
//	undo | clear                       commands
//	brush on|off                       start / stop brushing
//	view LEFT TOP WIDTH HEIGHT         viewport
//
// Blank lines and lines starting with # are skipped.
func replay(e *maskbrush.Editor, script io.Reader) error {
	scanner := bufio.NewScanner(script)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if err := step(e, fields[0], fields[1:]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	return scanner.Err()
}

func step(e *maskbrush.Editor, cmd string, args []string) error {
	switch cmd {
	case "down", "move":
		nums, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		kind := maskbrush.Down
		if cmd == "move" {
			kind = maskbrush.Move
		}
		e.HandlePointer(maskbrush.PointerEvent{Kind: kind, X: nums[0], Y: nums[1]})

	case "up", "leave":
		if len(args) != 0 {
			return fmt.Errorf("%s: expected no arguments", cmd)
		}
		kind := maskbrush.Up
		if cmd == "leave" {
			kind = maskbrush.Leave
		}
		e.HandlePointer(maskbrush.PointerEvent{Kind: kind})

	case "radius":
		nums, err := floats(args, 1)
		if err != nil {
			return fmt.Errorf("radius: %w", err)
		}
		e.SetBrushRadius(nums[0])

	case "undo":
		e.Undo()

	case "clear":
		e.Clear()

	case "brush":
		switch strings.Join(args, " ") {
		case "on":
			e.StartBrushing()
		case "off":
			e.StopBrushing()
		default:
			return fmt.Errorf("brush: expected on or off")
		}

	case "view":
		nums, err := floats(args, 4)
		if err != nil {
			return fmt.Errorf("view: %w", err)
		}
		e.SetViewport(maskbrush.Viewport{Left: nums[0], Top: nums[1], Width: nums[2], Height: nums[3]})

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}

	nums := make([]float64, n)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		nums[i] = f
	}

	return nums, nil
}
