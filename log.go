package arq

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Log mask bits. A message is emitted only when its bit is set in the
// mask installed via SetLogMask and a sink is installed via SetLogger.
const (
	ARQ_LOG_OUTPUT    uint32 = 1 << iota // datagram handed to output callback
	ARQ_LOG_INPUT                        // datagram fed to Input
	ARQ_LOG_SEND                         // application send
	ARQ_LOG_RECV                         // application receive
	ARQ_LOG_IN_DATA                      // PUSH segment ingested
	ARQ_LOG_IN_ACK                       // ACK segment ingested
	ARQ_LOG_IN_PROBE                     // WASK segment ingested
	ARQ_LOG_IN_WINS                      // WINS segment ingested
	ARQ_LOG_OUT_DATA                     // PUSH segment emitted
	ARQ_LOG_OUT_ACK                      // ACK segment emitted
	ARQ_LOG_OUT_PROBE                    // WASK segment emitted
	ARQ_LOG_OUT_WINS                     // WINS segment emitted
)

// LogCallback receives formatted protocol trace lines.
type LogCallback func(msg string)

func (arq *ARQ) canLog(mask uint32) bool {
	return mask&arq.logMask != 0 && arq.logger != nil
}

func (arq *ARQ) writeLog(mask uint32, format string, args ...interface{}) {
	if !arq.canLog(mask) {
		return
	}
	arq.logger(fmt.Sprintf(format, args...))
}

// LogrusSink adapts a logrus logger into a LogCallback. Trace lines are
// emitted at debug level.
func LogrusSink(logger logrus.FieldLogger) LogCallback {
	return func(msg string) {
		logger.Debug(msg)
	}
}
