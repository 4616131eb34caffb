package runtime_test

import (
	"testing"
	"time"

	"slintc-go/packages/compiler/src/runtime"
)

func TestProperty(t *testing.T) {
	t.Run("binding", func(t *testing.T) {
		src := runtime.NewProperty(1.0)
		p := runtime.NewProperty(nil)
		p.SetBinding(func() runtime.Value { return runtime.Number(src.Get()) * 2 })
		src.Set(4.0)
		if got := p.Get(); got != 8.0 {
			t.Errorf("binding = %v, want 8", got)
		}
		p.Set(1.0)
		src.Set(5.0)
		if p.HasBinding() || p.Get() != 1.0 {
			t.Errorf("Set must remove the binding, got %v", p.Get())
		}
	})

	t.Run("self reference", func(t *testing.T) {
		p := runtime.NewProperty(3.0)
		p.SetBinding(func() runtime.Value { return runtime.Number(p.Get()) + 1 })
		if got := p.Get(); got != 4.0 {
			t.Errorf("Get = %v, want 4", got)
		}
	})

	t.Run("constant", func(t *testing.T) {
		p := runtime.NewProperty("a")
		p.SetConstant()
		p.Set("b")
		if p.Get() != "a" {
			t.Errorf("constant property changed to %v", p.Get())
		}
	})

	t.Run("animation", func(t *testing.T) {
		p := runtime.NewProperty(0.0)
		p.SetAnimatedValue(10.0, runtime.PropertyAnimation{Duration: 200})
		if p.Get() != 10.0 {
			t.Errorf("animated value = %v, want the final value", p.Get())
		}
		if a := p.Animation(); a == nil || a.Duration != 200 {
			t.Errorf("Animation = %+v", a)
		}
	})
}

func TestLinkTwoWay(t *testing.T) {
	t.Run("value of a moves", func(t *testing.T) {
		a, b := runtime.NewProperty("a"), runtime.NewProperty(nil)
		runtime.LinkTwoWay(a, b)
		if b.Get() != "a" {
			t.Errorf("b = %v", b.Get())
		}
		b.Set("b")
		if a.Get() != "b" {
			t.Errorf("a = %v after setting b", a.Get())
		}
		a.Set("c")
		if b.Get() != "c" {
			t.Errorf("b = %v after setting a", b.Get())
		}
	})

	t.Run("binding of b wins", func(t *testing.T) {
		a, b := runtime.NewProperty(nil), runtime.NewProperty(nil)
		a.SetBinding(func() runtime.Value { return "from a" })
		b.SetBinding(func() runtime.Value { return "from b" })
		runtime.LinkTwoWay(a, b)
		if a.Get() != "from b" {
			t.Errorf("a = %v", a.Get())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a, b := runtime.NewProperty(1.0), runtime.NewProperty(2.0)
		runtime.LinkTwoWay(a, b)
		runtime.LinkTwoWay(b, a)
		a.Set(3.0)
		if b.Get() != 3.0 {
			t.Errorf("b = %v", b.Get())
		}
	})
}

func TestCallback(t *testing.T) {
	var c runtime.Callback
	if c.Call(1.0) != nil {
		t.Error("a callback without handler returns a value")
	}
	c.SetHandler(func(args []runtime.Value) runtime.Value {
		return runtime.Number(args[0]) + runtime.Number(args[1])
	})
	if got := c.Call(1.0, 2.0); got != 3.0 {
		t.Errorf("Call = %v", got)
	}
}

func TestChangeTracker(t *testing.T) {
	p := runtime.NewProperty(1.0)
	var seen []runtime.Value
	var tracker runtime.ChangeTracker
	tracker.Init(p.Get, func(v runtime.Value) { seen = append(seen, v) })
	if tracker.Evaluate() {
		t.Error("Evaluate reported a change without one")
	}
	p.Set(2.0)
	p.Set(3.0)
	if !tracker.Evaluate() {
		t.Error("Evaluate missed a change")
	}
	p.Set(3.0)
	tracker.Evaluate()
	if len(seen) != 1 || seen[0] != 3.0 {
		t.Errorf("handler calls = %v, want [3]", seen)
	}
}

func TestTimer(t *testing.T) {
	t.Run("repeated", func(t *testing.T) {
		loop := runtime.NewManualEventLoop()
		timer := runtime.NewTimer(loop)
		count := 0
		timer.Start(runtime.TimerRepeated, 10*time.Millisecond, func() { count++ })
		loop.Advance(25 * time.Millisecond)
		if count != 2 {
			t.Errorf("fired %d times in 25ms, want 2", count)
		}
		timer.Start(runtime.TimerRepeated, 10*time.Millisecond, func() { count++ })
		loop.Advance(5 * time.Millisecond)
		if count != 2 {
			t.Errorf("restart did not reset the interval, count = %d", count)
		}
		loop.Advance(5 * time.Millisecond)
		if count != 3 {
			t.Errorf("count = %d after the restarted interval", count)
		}
		timer.Stop()
		timer.Stop()
		loop.Advance(time.Second)
		if count != 3 || timer.Running() {
			t.Errorf("stopped timer fired, count = %d", count)
		}
	})

	t.Run("single shot", func(t *testing.T) {
		loop := runtime.NewManualEventLoop()
		timer := runtime.NewTimer(loop)
		count := 0
		timer.Start(runtime.TimerSingleShot, time.Millisecond, func() { count++ })
		loop.Advance(time.Second)
		if count != 1 || timer.Running() {
			t.Errorf("count = %d, running = %v", count, timer.Running())
		}
	})

	t.Run("posted tasks and tick hooks", func(t *testing.T) {
		loop := runtime.NewManualEventLoop()
		var order []string
		loop.OnTick(func() { order = append(order, "tick") })
		loop.Post(func() { order = append(order, "task") })
		loop.Advance(0)
		loop.Advance(0)
		if len(order) != 3 || order[0] != "task" {
			t.Errorf("order = %v", order)
		}
	})
}

func TestWindowPopups(t *testing.T) {
	w := runtime.NewWindow(0)
	if w.ScaleFactor() != 1 {
		t.Errorf("default scale factor = %v", w.ScaleFactor())
	}
	w.ClosePopup(42)
	if len(w.PopupHandles()) != 0 {
		t.Error("closing an unknown popup opened one")
	}
	first := w.ShowPopup(runtime.Popup{X: 1})
	second := w.ShowPopup(runtime.Popup{X: 2, IsMenu: true})
	if first == 0 || second <= first {
		t.Errorf("handles %d, %d", first, second)
	}
	w.ClosePopup(first)
	w.ClosePopup(first)
	handles := w.PopupHandles()
	if len(handles) != 1 || handles[0] != second {
		t.Errorf("handles = %v", handles)
	}
	if p, ok := w.Popup(second); !ok || !p.IsMenu {
		t.Errorf("Popup(%d) = %+v, %v", second, p, ok)
	}
	w.Hide()
	if len(w.PopupHandles()) != 0 {
		t.Error("Hide kept popups open")
	}
}

func TestWindowFocus(t *testing.T) {
	w := runtime.NewWindow(2)
	a := runtime.ItemRef{Index: 1}
	b := runtime.ItemRef{Index: 2}
	w.SetFocusItem(a, true)
	w.SetFocusItem(b, false)
	if got, ok := w.FocusItem(); !ok || got != a {
		t.Errorf("clearing the focus of another item removed it: %v", got)
	}
	w.SetFocusItem(a, false)
	if _, ok := w.FocusItem(); ok {
		t.Error("focus not cleared")
	}
}
