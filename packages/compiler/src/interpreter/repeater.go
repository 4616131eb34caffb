package interpreter

import (
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/util"
)

// repeater instantiates one row per entry of its model.
//
// synced[i] is the model data row i was last updated with. Rows are only updated when the
// model reports different data, so writes to a row survive a model expression that
// produces a fresh array on each evaluation.
type repeater struct {
	elem     *llr.RepeatedElement
	index    int
	model    runtime.Model
	rows     []*instance
	synced   []runtime.Value
	updating bool
}

// ensureUpdated evaluates the model and creates, updates or destroys rows to match it
func (inst *instance) ensureUpdated(r *repeater) {
	if r.updating {
		return
	}
	r.updating = true
	defer func() { r.updating = false }()

	r.model = runtime.ModelFromValue(inst.scope().evaluate(r.elem.Model))
	n := r.model.RowCount()
	for len(r.rows) > n {
		last := len(r.rows) - 1
		r.rows[last].destroy()
		r.rows = r.rows[:last]
		r.synced = r.synced[:last]
	}
	for i, row := range r.rows {
		data := r.model.RowData(i)
		if !runtime.Equal(data, r.synced[i]) {
			r.synced[i] = data
			row.updateData(r.elem, i, data)
		}
	}
	for i := len(r.rows); i < n; i++ {
		data := r.model.RowData(i)
		row := inst.sys.newInstance(r.elem.SubTree.Root, inst.handle, r.index)
		r.rows = append(r.rows, row)
		r.synced = append(r.synced, data)
		row.init()
		row.updateData(r.elem, i, data)
		row.userInit()
	}
}

// updateData sets the index and data properties of a row
func (inst *instance) updateData(elem *llr.RepeatedElement, i int, data runtime.Value) {
	inst.row = i
	if elem.IndexProp != nil {
		inst.props[*elem.IndexProp].Set(float64(i))
	}
	if elem.DataProp != nil {
		inst.props[*elem.DataProp].Set(data)
	}
}

// setRowData writes the model data of a row and updates the row
func (r *repeater) setRowData(row *instance, data runtime.Value) {
	if r.model != nil {
		r.model.SetRowData(row.row, data)
	}
	row.updateData(r.elem, row.row, data)
}

// assignModelData writes the model data of the row level hops up
func (inst *instance) assignModelData(level int, v runtime.Value) {
	row := inst
	for i := 0; i < level; i++ {
		parent, ok := inst.sys.instances.Get(row.parent)
		if !ok {
			return
		}
		row = parent
	}
	if row.repeaterIndex == noRepeater {
		util.InternalError("model data assignment outside of a repeater in %s", row.sc.Name)
	}
	owner, ok := inst.sys.instances.Get(row.parent)
	if !ok {
		return
	}
	owner.repeaters[row.repeaterIndex].setRowData(row, v)
}

// repeaterAt returns the repeater at index, counting the repeaters of embedded
// sub-components after the local ones
func (inst *instance) repeaterAt(index int) (*instance, *repeater, bool) {
	if index < 0 {
		return nil, nil, false
	}
	if index < len(inst.repeaters) {
		return inst, inst.repeaters[index], true
	}
	for i, sub := range inst.sc.SubComponents {
		if index >= sub.RepeaterOffset && index < sub.RepeaterOffset+sub.Type.RepeaterCount() {
			return inst.subs[i].repeaterAt(index - sub.RepeaterOffset)
		}
	}
	return nil, nil, false
}

// showPopup opens popup or menu index of inst, closing it first if it is open
func (inst *instance) showPopup(index int, x, y float64, menu bool) {
	var tree llr.ItemTree
	var slot *popupSlot
	if menu {
		checkPopupIndex(index, len(inst.sc.MenuItemTrees), inst.sc.Name)
		tree, slot = inst.sc.MenuItemTrees[index], &inst.menus[index]
	} else {
		checkPopupIndex(index, len(inst.sc.PopupWindows), inst.sc.Name)
		tree, slot = inst.sc.PopupWindows[index].Item, &inst.popups[index]
	}
	inst.closeSlot(slot)
	popup := inst.sys.newInstance(tree.Root, inst.handle, noRepeater)
	popup.init()
	slot.inst = popup
	slot.handle = inst.sys.window.ShowPopup(runtime.Popup{Component: popup.handle, X: x, Y: y, IsMenu: menu})
	popup.userInit()
}

// closePopup closes popup index. Closing a popup that is not open does nothing.
func (inst *instance) closePopup(index int) {
	checkPopupIndex(index, len(inst.sc.PopupWindows), inst.sc.Name)
	inst.closeSlot(&inst.popups[index])
}

func (inst *instance) closeSlot(slot *popupSlot) {
	if slot.inst == nil {
		return
	}
	inst.sys.window.ClosePopup(slot.handle)
	slot.inst.destroy()
	*slot = popupSlot{}
}

func checkPopupIndex(i, n int, owner string) {
	if i < 0 || i >= n {
		util.InternalError("popup index %d out of range in %s", i, owner)
	}
}
