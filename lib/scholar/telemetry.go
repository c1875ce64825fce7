package scholar

import (
	"scholarcite/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scholarcite.lib.scholar")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables full request/response transcript
// dumps for clients created afterwards. Used by CLI verbose mode.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
