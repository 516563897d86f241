// Package logtail reads the tail of the application log for the in-app log
// overlay.
//
// Read uses a ring buffer sized to maxLines, so memory stays O(maxLines)
// however large the file grows. A missing file is not an error; it yields no
// lines.
//
// Parse decodes the JSON lines written by the zap file sink into an Entry
// with extra fields sorted by key, and Format turns an Entry back into a
// single readable line. Lines that are not JSON pass through unchanged.
package logtail
