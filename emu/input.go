package emu

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"chipper/emu/log"
	"chipper/hw"
)

// Input provides the state of the host keys mapped to the keypad.
type Input interface {
	Keys() [hw.NumKeys]bool
}

// LineInput reads key states from text lines, such as a terminal in line
// mode. Each line lists the host key names held down, separated by spaces or
// commas, until the next line. An empty line releases all keys.
type LineInput struct {
	mu   sync.Mutex
	keys [hw.NumKeys]bool
	cfg  InputConfig
}

// NewLineInput starts reading lines from r in the background.
func NewLineInput(r io.Reader, cfg InputConfig) *LineInput {
	li := &LineInput{cfg: cfg}
	go li.scan(r)
	return li
}

func (li *LineInput) scan(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names := strings.FieldsFunc(sc.Text(), func(r rune) bool { return r == ' ' || r == ',' })
		keys, err := li.cfg.Parse(names)
		if err != nil {
			log.ModInput.WarnZ("Ignoring input line").Error("err", err).End()
			continue
		}
		log.ModInput.DebugZ("keys").String("held", sc.Text()).End()

		li.mu.Lock()
		li.keys = keys
		li.mu.Unlock()
	}
	if err := sc.Err(); err != nil {
		log.ModInput.WarnZ("Input stopped").Error("err", err).End()
	}
}

func (li *LineInput) Keys() [hw.NumKeys]bool {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.keys
}
