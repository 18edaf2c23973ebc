// Package obs wires structured logging into the tokenizer/parser/formatter
// pipeline. Components pull a *logrus.Entry scoped to their name via
// Component and attach request-specific fields with WithFields, mirroring
// the logrus.Entry wrapping pattern used for audit trails elsewhere in the
// corpus this module draws its ambient stack from.
package obs

import "github.com/sirupsen/logrus"

// Logger is the package-wide logrus instance. Callers may reassign its
// level, formatter, or output via standard *logrus.Logger methods before
// any Component is pulled.
var Logger = logrus.New()

func init() {
	Logger.SetLevel(logrus.WarnLevel)
}

// Component returns an entry tagged with the given subsystem name, e.g.
// obs.Component("parser").
func Component(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
