/*
Package log provides drfsim's structured logging, wrapping zerolog with a
global logger selected by Init plus a handful of entity-scoped child-logger
helpers. WithComponent always scopes the global Logger; WithAppID, WithNodeID
and WithTaskID take an explicit base logger so a caller already holding its
own (e.g. an Engine configured via WithLogger) can derive scoped children
from that instance instead of the global one.

The engine itself never calls Init: it accepts an optional zerolog.Logger
(defaulting to zerolog.Nop(), which discards everything) and only cmd/drfsim wires this
package's global Logger into it via --trace, so library callers who never
touch this package get silent operation.
*/
package log
