package logx

import (
	"time"
)

type Timer struct {
	start time.Time
	comp  string
	op    string
}

func Start(comp, op string) *Timer {
	return &Timer{
		start: time.Now(),
		comp:  comp,
		op:    op,
	}
}

func (t *Timer) End() {
	elapsed := time.Since(t.start)
	Info(t.comp, "[TIMING] %s = %v", t.op, elapsed)
}
