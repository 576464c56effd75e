package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

type Logger struct {
	level      LogLevel
	jsonFormat bool
	out        io.Writer
	context    map[string]interface{}
	mu         *sync.Mutex
}

var (
	global *Logger
	once   sync.Once
)

// Init configures the process-wide logger. A nil writer discards output,
// which keeps tests quiet.
func Init(level LogLevel, jsonFormat bool, out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	level = LogLevel(strings.ToUpper(string(level)))
	if _, ok := levelRank[level]; !ok {
		level = INFO
	}
	global = &Logger{
		level:      level,
		jsonFormat: jsonFormat,
		out:        out,
		context:    map[string]interface{}{},
		mu:         &sync.Mutex{},
	}
}

func GetLogger() *Logger {
	once.Do(func() {
		if global == nil {
			Init(INFO, false, os.Stdout)
		}
	})
	return global
}

// WithContext returns a child logger that attaches the given key-value pair
// to every record it emits.
func (l *Logger) WithContext(key string, value interface{}) *Logger {
	ctx := make(map[string]interface{}, len(l.context)+1)
	for k, v := range l.context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Logger{
		level:      l.level,
		jsonFormat: l.jsonFormat,
		out:        l.out,
		context:    ctx,
		mu:         l.mu,
	}
}

func WithContext(key string, value interface{}) *Logger {
	return GetLogger().WithContext(key, value)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(DEBUG, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(INFO, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(WARN, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(ERROR, msg, args) }

func Debug(msg string, args ...interface{}) { GetLogger().log(DEBUG, msg, args) }
func Info(msg string, args ...interface{})  { GetLogger().log(INFO, msg, args) }
func Warn(msg string, args ...interface{})  { GetLogger().log(WARN, msg, args) }
func Error(msg string, args ...interface{}) { GetLogger().log(ERROR, msg, args) }

func (l *Logger) log(level LogLevel, msg string, args []interface{}) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	fields := make(map[string]interface{}, len(l.context)+len(args)/2)
	for k, v := range l.context {
		fields[k] = v
	}
	collectFields(fields, args)

	ts := time.Now().UTC().Format(time.RFC3339)

	var line string
	if l.jsonFormat {
		record := map[string]interface{}{
			"ts":    ts,
			"level": string(level),
			"msg":   msg,
		}
		for k, v := range fields {
			record[k] = v
		}
		data, err := json.Marshal(record)
		if err != nil {
			return
		}
		line = string(data)
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "%s [%s] %s", ts, level, msg)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
		line = b.String()
	}

	l.mu.Lock()
	fmt.Fprintln(l.out, line)
	l.mu.Unlock()
}

// collectFields accepts either alternating key-value pairs or a single
// map[string]interface{} argument.
func collectFields(dst map[string]interface{}, args []interface{}) {
	if len(args) == 1 {
		if m, ok := args[0].(map[string]interface{}); ok {
			for k, v := range m {
				dst[k] = v
			}
			return
		}
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		dst[key] = args[i+1]
	}
	if len(args)%2 == 1 && len(args) > 1 {
		dst["arg"] = args[len(args)-1]
	}
}
