// Package lua runs mod scripts on gopher-lua.
//
// Each script gets its own sandboxed State. The sandbox removes the
// functions that load code from disk and leaves io, os and debug closed
// unless the script declares itself unsafe.
//
// # Script API
//
// A mod's main.lua may declare:
//
//	meta = {
//	    name = "Speedy Shoes",
//	    author = "someone",
//	    version = "1.2.0",
//	    description = "Run faster.",
//	    unsafe = false,
//	}
//
//	function update() end         -- once per tick while enabled
//	function draw(ctx) end        -- once per frame, enabled or not
//	function options(ui) end      -- inside the options window
//	function on_enable() end
//	function on_disable() end
//
// message(text) and print(...) queue timestamped messages for the host log.
//
// The draw context offers ctx.text(x, y, text, "#rrggbb"), ctx.width() and
// ctx.height(). The options table offers ui.text, ui.text_colored,
// ui.text_wrapped, ui.separator, ui.same_line and ui.checkbox(label, value),
// which returns the new value. Both accept dot and colon call syntax.
package lua
