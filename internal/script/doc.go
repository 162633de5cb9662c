// Package script defines the contract between the mod manager and a script
// engine.
//
// The manager never talks to an interpreter directly. It asks an Engine to
// create a Script from a file and then drives it through a small set of
// per-frame calls:
//
//	handle, err := script.Open(engine, "Mods/Packs/mymod/main.lua", false)
//	if err != nil {
//	    // mod stays inert until the next refresh
//	}
//	defer handle.Release()
//
//	handle.Script().Update()
//	for _, msg := range handle.Script().Messages() {
//	    // msg.Timestamp is monotonic across every script of one engine
//	}
//
// # Results
//
// Every script exposes the outcome of its last operation through Result.
// ResultMetadataFetched and ResultOK are sentinels meaning "nothing went
// wrong"; any other string is an error description.
//
// # Drawing
//
// Scripts draw onto a shared Surface once per frame and may render their
// own settings through Widgets inside the options window. Both are
// implemented by the host's UI layer.
package script
