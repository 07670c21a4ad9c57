package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	Hostname  string `json:"hostname"`
	RequestID string `json:"request_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	Error     *struct {
		Msg string `json:"msg"`
	} `json:"error,omitempty"`
}

var hostname, _ = os.Hostname()

var serviceName = "unknown-service"

// SetServiceName should be called once at service start.
func SetServiceName(name string) {
	serviceName = name
}

func Info(action, message, requestID, orderID string) {
	output(entry("INFO", action, message, requestID, orderID, ""))
}

func Debug(action, message, requestID, orderID string) {
	output(entry("DEBUG", action, message, requestID, orderID, ""))
}

func Warn(action, message, requestID, orderID, errMsg string) {
	output(entry("WARN", action, message, requestID, orderID, errMsg))
}

func Error(action, message, requestID, orderID, errMsg string) {
	output(entry("ERROR", action, message, requestID, orderID, errMsg))
}

func entry(level, action, message, requestID, orderID, errMsg string) LogEntry {
	e := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Service:   serviceName,
		Action:    action,
		Message:   message,
		Hostname:  hostname,
		RequestID: requestID,
		OrderID:   orderID,
	}
	if errMsg != "" {
		e.Error = &struct {
			Msg string `json:"msg"`
		}{Msg: errMsg}
	}
	return e
}

func output(e LogEntry) {
	jsonData, _ := json.Marshal(e)
	fmt.Println(string(jsonData))
}
