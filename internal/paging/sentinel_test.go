package paging

import (
	"context"
	"testing"
)

func TestDebouncer_LatestTokenWins(t *testing.T) {
	var d Debouncer

	first := d.Arm()
	second := d.Arm()

	if d.Fire(first) {
		t.Error("superseded token fired")
	}
	if !d.Fire(second) {
		t.Error("latest token refused to fire")
	}
	// Firing does not consume the token; only a newer Arm invalidates it.
	if !d.Fire(second) {
		t.Error("latest token should stay valid until re-armed")
	}
}

func TestEvaluate_NearBottomRequestsNextPage(t *testing.T) {
	w, list, _, _ := newTestWindow(10)
	load(t, w, 1, Forward)

	// 30 lines of content, viewport of 20: scrolled to the end, the bottom
	// distance is 0.
	list.offset = 10

	triggers := w.Evaluate()
	if len(triggers) != 1 {
		t.Fatalf("triggers = %v, want one forward trigger", triggers)
	}
	if triggers[0].Page != 2 || triggers[0].Dir != Forward {
		t.Errorf("trigger = %+v, want page 2 forward", triggers[0])
	}
}

func TestEvaluate_FarFromEdgesIsQuiet(t *testing.T) {
	w, list, _, _ := newTestWindow(10)
	load(t, w, 1, Forward)
	load(t, w, 2, Forward)
	load(t, w, 3, Forward)

	// 90 lines rendered; sit in the middle, beyond the threshold from both
	// edges.
	list.offset = 35

	if triggers := w.Evaluate(); len(triggers) != 0 {
		t.Errorf("triggers = %v, want none", triggers)
	}
}

func TestEvaluate_NearTopRequestsPreviousPage(t *testing.T) {
	w, list, _, _ := newTestWindow(10)
	load(t, w, 3, Forward)
	load(t, w, 4, Forward)

	list.offset = 2

	triggers := w.Evaluate()
	found := false
	for _, tr := range triggers {
		if tr.Page == 2 && tr.Dir == Backward {
			found = true
		}
	}
	if !found {
		t.Errorf("triggers = %v, want a backward trigger for page 2", triggers)
	}
}

func TestEvaluate_TopBoundedByPageOne(t *testing.T) {
	w, list, _, _ := newTestWindow(10)
	load(t, w, 1, Forward)

	list.offset = 0

	for _, tr := range w.Evaluate() {
		if tr.Dir == Backward {
			t.Errorf("backward trigger %+v with minLoadedPage already 1", tr)
		}
	}
}

func TestEvaluate_BottomBoundedByTotalPages(t *testing.T) {
	w, list, _, _ := newTestWindow(2)
	load(t, w, 1, Forward)
	load(t, w, 2, Forward)

	list.offset = len(list.lines) - list.viewHeight

	for _, tr := range w.Evaluate() {
		if tr.Dir == Forward {
			t.Errorf("forward trigger %+v beyond totalPages", tr)
		}
	}
}

func TestEvaluate_SkippedWhileLoading(t *testing.T) {
	w, list, _, _ := newTestWindow(10)
	load(t, w, 1, Forward)
	list.offset = 10

	req := w.StartLoad(2, Forward)
	if req == nil {
		t.Fatal("StartLoad refused")
	}
	if triggers := w.Evaluate(); triggers != nil {
		t.Errorf("Evaluate during in-flight load = %v, want nil", triggers)
	}

	res, err := w.Fetch(context.Background(), req)
	w.FinishLoad(req, res, err)
	if triggers := w.Evaluate(); len(triggers) == 0 {
		// Still at the old offset; content doubled, so this is fine either
		// way, but the call itself must work again.
		_ = triggers
	}
}
