package rabbitmq

import (
	"fmt"

	"moderation-console/internal/core/port"
	"moderation-console/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge отдает пакету pkg/rabbitmq логгер приложения.
// pkg пишет пары ключ-значение, здесь они собираются в port.Fields.
type PkgLoggerBridge struct {
	logger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{logger: logger}
}

func pairsToFields(kv []interface{}) port.Fields {
	if len(kv) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 == len(kv) {
			fields[key] = "(missing)"
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, kv ...interface{}) { b.logger.Debug(msg, pairsToFields(kv)) }
func (b *PkgLoggerBridge) Info(msg string, kv ...interface{})  { b.logger.Info(msg, pairsToFields(kv)) }
func (b *PkgLoggerBridge) Warn(msg string, kv ...interface{})  { b.logger.Warn(msg, pairsToFields(kv)) }

func (b *PkgLoggerBridge) Error(err error, msg string, kv ...interface{}) {
	b.logger.Error(msg, err, pairsToFields(kv))
}
