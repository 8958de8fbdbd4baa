// Package logging builds the logrus logger used as the CLI's log sink and
// carries it through context.Context so that every extension-manager call
// logs to the same place without taking a logger parameter.
package logging
