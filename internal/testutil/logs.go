package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// LogBuffer collects JSON log records from a slog logger; it's safe for concurrent use.
type LogBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.m.Lock()
	defer lb.m.Unlock()
	return lb.b.Write(p)
}

func (lb *LogBuffer) String() string {
	lb.m.Lock()
	defer lb.m.Unlock()
	return lb.b.String()
}

// Logger returns a logger that writes every record, at all levels, to the buffer.
func (lb *LogBuffer) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(lb, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// Records returns the records logged so far, decoded.
// Lines that can't be decoded are skipped.
func (lb *LogBuffer) Records() []map[string]any {
	lb.m.Lock()
	data := bytes.Clone(lb.b.Bytes())
	lb.m.Unlock()

	var res []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		rec := map[string]any{}
		if json.Unmarshal(scanner.Bytes(), &rec) == nil {
			res = append(res, rec)
		}
	}
	return res
}

// Messages returns the "msg" field of every record logged so far.
func (lb *LogBuffer) Messages() []string {
	recs := lb.Records()
	res := make([]string, 0, len(recs))
	for _, rec := range recs {
		msg, _ := rec["msg"].(string)
		res = append(res, msg)
	}
	return res
}
