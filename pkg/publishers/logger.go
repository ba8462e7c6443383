package publishers

// Logger is the logging surface sinks report delivery through.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// logDelivery records the outcome of a single publish under a per-type key.
func logDelivery(log Logger, typ, id string, evt Event, err error) {
	fields := map[string]any{
		"publisher_id": id,
		"feed_id":      evt.FeedID,
		"status_id":    evt.Status.ID,
	}
	if err != nil {
		fields["error"] = err.Error()
		log.ErrorObj(typ+" publisher send failed", "publisher_"+typ+"_error", fields)
		return
	}
	log.DebugObj(typ+" publisher delivered event", "publisher_"+typ+"_delivery", fields)
}
