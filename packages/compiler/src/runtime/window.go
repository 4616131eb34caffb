package runtime

import "sort"

// PopupHandle identifies a shown popup. The zero handle is never returned.
type PopupHandle uint64

// Popup is a popup window or menu shown above a component
type Popup struct {
	// Component is the instance shown in the popup
	Component any
	X, Y      float64
	IsMenu    bool
}

// ItemRef identifies an item of a component instance
type ItemRef struct {
	Component any
	Index     int
}

// Window holds the state shared by the components shown in one window
type Window struct {
	scaleFactor      float64
	defaultFontSize  float64
	darkColorScheme  bool
	textInputFocused bool
	visible          bool
	focus            *ItemRef
	popups           map[PopupHandle]Popup
	nextPopup        PopupHandle
	fonts            []string
}

// NewWindow creates a hidden window
func NewWindow(scaleFactor float64) *Window {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return &Window{
		scaleFactor:     scaleFactor,
		defaultFontSize: 12,
		popups:          map[PopupHandle]Popup{},
	}
}

// ScaleFactor is the ratio between physical and logical pixels
func (w *Window) ScaleFactor() float64 { return w.scaleFactor }

// DefaultFontSize is the font size of Text items without explicit size
func (w *Window) DefaultFontSize() float64 { return w.defaultFontSize }

// SetDefaultFontSize changes the default font size
func (w *Window) SetDefaultFontSize(size float64) { w.defaultFontSize = size }

// DarkColorScheme reports whether the platform prefers dark colors
func (w *Window) DarkColorScheme() bool { return w.darkColorScheme }

// SetDarkColorScheme changes the color scheme
func (w *Window) SetDarkColorScheme(dark bool) { w.darkColorScheme = dark }

// TextInputFocused reports whether a text input has the focus
func (w *Window) TextInputFocused() bool { return w.textInputFocused }

// SetTextInputFocused is set by text inputs gaining or losing the focus
func (w *Window) SetTextInputFocused(focused bool) { w.textInputFocused = focused }

// Show makes the window visible
func (w *Window) Show() { w.visible = true }

// Hide hides the window and closes every popup
func (w *Window) Hide() {
	w.visible = false
	w.popups = map[PopupHandle]Popup{}
}

// Visible reports whether Show was called last
func (w *Window) Visible() bool { return w.visible }

// SetFocusItem gives the focus to item, or clears it if set is false and item has it
func (w *Window) SetFocusItem(item ItemRef, set bool) {
	if set {
		w.focus = &item
		return
	}
	if w.focus != nil && *w.focus == item {
		w.focus = nil
	}
}

// ClearFocus removes the focus
func (w *Window) ClearFocus() {
	w.focus = nil
}

// FocusItem returns the item having the focus
func (w *Window) FocusItem() (ItemRef, bool) {
	if w.focus == nil {
		return ItemRef{}, false
	}
	return *w.focus, true
}

// ShowPopup registers a popup and returns its handle
func (w *Window) ShowPopup(p Popup) PopupHandle {
	w.nextPopup++
	w.popups[w.nextPopup] = p
	return w.nextPopup
}

// ClosePopup closes a popup. Unknown or already closed handles are ignored.
func (w *Window) ClosePopup(h PopupHandle) {
	delete(w.popups, h)
}

// Popup returns a shown popup
func (w *Window) Popup(h PopupHandle) (Popup, bool) {
	p, ok := w.popups[h]
	return p, ok
}

// PopupHandles returns the handles of the shown popups in opening order
func (w *Window) PopupHandles() []PopupHandle {
	handles := make([]PopupHandle, 0, len(w.popups))
	for h := range w.popups {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// RegisterFont records a font registered by path or by resource
func (w *Window) RegisterFont(source string) {
	w.fonts = append(w.fonts, source)
}

// Fonts returns the registered fonts
func (w *Window) Fonts() []string {
	return append([]string(nil), w.fonts...)
}
