package domain

// DefaultWindowSize is the number of admitted files visible at once
const DefaultWindowSize = 3

// FileWindow is a sliding view over the admitted file list.
// Start always stays within [0, max(total-Size, 0)].
type FileWindow struct {
	Start int
	Size  int
}

// NewFileWindow creates a window of the given size starting at 0
func NewFileWindow(size int) FileWindow {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return FileWindow{Size: size}
}

// maxStart returns the largest valid start index for total files
func (w FileWindow) maxStart(total int) int {
	if m := total - w.Size; m > 0 {
		return m
	}
	return 0
}

// Next advances the window by one, stopping at the end
func (w FileWindow) Next(total int) FileWindow {
	w.Start = min(w.Start+1, w.maxStart(total))
	return w
}

// Prev moves the window back by one, stopping at the start
func (w FileWindow) Prev() FileWindow {
	w.Start = max(w.Start-1, 0)
	return w
}

// Clamp brings Start back into range after the file list changed
func (w FileWindow) Clamp(total int) FileWindow {
	w.Start = max(min(w.Start, w.maxStart(total)), 0)
	return w
}

// Range returns the half-open index range [lo, hi) visible for total files
func (w FileWindow) Range(total int) (int, int) {
	w = w.Clamp(total)
	hi := min(w.Start+w.Size, total)
	return w.Start, hi
}

// HasPrev reports whether the window can move back
func (w FileWindow) HasPrev() bool {
	return w.Start > 0
}

// HasNext reports whether the window can move forward
func (w FileWindow) HasNext(total int) bool {
	return w.Start+w.Size < total
}
