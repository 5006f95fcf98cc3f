package tracker

import (
	"math/rand"
	"testing"
	"time"
)

var (
	testFace   = Rect{X: 100, Y: 80, Width: 200, Height: 200}
	normalEye  = Rect{X: 30, Y: 60, Width: 40, Height: 30}
	raisedEye  = Rect{X: 30, Y: 10, Width: 40, Height: 30}
	testMouth  = Rect{X: 60, Y: 30, Width: 80, Height: 40}
	testOrigin = time.UnixMilli(1_700_000_000_000)
)

func eyes(n int) []Rect {
	out := make([]Rect, n)
	for i := range out {
		out[i] = normalEye
	}
	return out
}

func mouths(open bool) []Rect {
	if open {
		return []Rect{testMouth}
	}
	return nil
}

func frameAt(ms int, faces ...FaceObservation) Frame {
	return Frame{Faces: faces, At: testOrigin.Add(time.Duration(ms) * time.Millisecond)}
}

func TestRect_Halves(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 101, Height: 75}

	upper := r.UpperHalf()
	if upper != (Rect{X: 0, Y: 0, Width: 101, Height: 37}) {
		t.Errorf("UpperHalf() = %+v", upper)
	}

	lower := r.LowerHalf()
	if lower != (Rect{X: 0, Y: 37, Width: 101, Height: 37}) {
		t.Errorf("LowerHalf() = %+v", lower)
	}

	if !(Rect{Width: 10}).Empty() {
		t.Error("zero-height rect should be empty")
	}
}

func TestEventKind_Valid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if EventKind("wink").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestTracker_BlinkScenario(t *testing.T) {
	tr := New(0, 0)
	eyeCounts := []int{2, 2, 0, 0, 2}
	expected := []int{0, 0, 1, 1, 1}

	for i, n := range eyeCounts {
		tr.Process(frameAt(i*33, FaceObservation{Face: testFace, Eyes: eyes(n)}))
		if got := tr.Counts().Blinks; got != expected[i] {
			t.Errorf("frame %d: blinks = %d, expected %d", i, got, expected[i])
		}
	}
}

func TestTracker_NoBlinkWithoutPriorEyes(t *testing.T) {
	tr := New(0, 0)
	for i := 0; i < 10; i++ {
		tr.Process(frameAt(i*33, FaceObservation{Face: testFace}))
	}
	if got := tr.Counts().Blinks; got != 0 {
		t.Errorf("blinks = %d, expected 0", got)
	}
}

func TestTracker_MouthScenario(t *testing.T) {
	tr := New(0, 0)
	open := []bool{false, true, true, false, true}
	expected := []int{0, 1, 1, 1, 2}

	for i, o := range open {
		tr.Process(frameAt(i*33, FaceObservation{Face: testFace, Eyes: eyes(2), Mouths: mouths(o)}))
		if got := tr.Counts().Mouths; got != expected[i] {
			t.Errorf("frame %d: mouths = %d, expected %d", i, got, expected[i])
		}
	}
}

func TestTracker_SustainedMouthCountsOnce(t *testing.T) {
	tr := New(0, 0)
	for i := 0; i < 30; i++ {
		tr.Process(frameAt(i*33, FaceObservation{Face: testFace, Mouths: mouths(true)}))
	}
	if got := tr.Counts().Mouths; got != 1 {
		t.Errorf("mouths = %d, expected 1", got)
	}
}

func TestTracker_EyebrowScenario(t *testing.T) {
	tr := New(time.Second, 0.2)
	times := []int{0, 500, 1500}
	expected := []int{1, 1, 2}

	for i, ms := range times {
		tr.Process(frameAt(ms, FaceObservation{Face: testFace, Eyes: []Rect{raisedEye}}))
		if got := tr.Counts().Eyebrows; got != expected[i] {
			t.Errorf("t=%dms: eyebrows = %d, expected %d", ms, got, expected[i])
		}
	}

	if last := tr.State().LastEyebrowAt; !last.Equal(testOrigin.Add(1500 * time.Millisecond)) {
		t.Errorf("LastEyebrowAt = %v", last)
	}
}

func TestTracker_EyebrowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		eyeY     int
		expected int
	}{
		{"well above", 5, 1},
		{"just above", 39, 1},
		{"on threshold", 40, 0},
		{"below", 80, 0},
	}

	for _, tt := range tests {
		tr := New(time.Second, 0.2)
		eye := Rect{X: 20, Y: tt.eyeY, Width: 40, Height: 30}
		tr.Process(frameAt(0, FaceObservation{Face: testFace, Eyes: []Rect{eye}}))
		if got := tr.Counts().Eyebrows; got != tt.expected {
			t.Errorf("%s: eyebrows = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}

func TestTracker_TwoRaisedEyesOneEvent(t *testing.T) {
	tr := New(time.Second, 0.2)
	events := tr.Process(frameAt(0, FaceObservation{Face: testFace, Eyes: []Rect{raisedEye, raisedEye}}))

	if got := tr.Counts().Eyebrows; got != 1 {
		t.Errorf("eyebrows = %d, expected 1", got)
	}
	if len(events) != 1 || events[0].Kind != EyebrowRaise {
		t.Errorf("events = %+v, expected one eyebrow event", events)
	}
}

func TestTracker_EmptyFrameKeepsState(t *testing.T) {
	tr := New(0, 0)
	tr.Process(frameAt(0, FaceObservation{Face: testFace, Eyes: eyes(2), Mouths: mouths(true)}))
	before := tr.State()

	events := tr.Process(frameAt(33))

	if len(events) != 0 {
		t.Errorf("empty frame emitted %d events", len(events))
	}
	if after := tr.State(); after != before {
		t.Errorf("state changed: before %+v, after %+v", before, after)
	}

	// Eyes were present before the gap, so losing them afterwards is still a blink.
	tr.Process(frameAt(66, FaceObservation{Face: testFace}))
	if got := tr.Counts().Blinks; got != 1 {
		t.Errorf("blinks = %d, expected 1", got)
	}
}

func TestTracker_LastFaceWins(t *testing.T) {
	tr := New(0, 0)
	first := FaceObservation{Face: testFace, Eyes: eyes(2), Mouths: mouths(true)}
	second := FaceObservation{Face: Rect{X: 400, Y: 80, Width: 200, Height: 200}}

	tr.Process(frameAt(0, first, second))

	state := tr.State()
	if state.PrevEyeCount != 0 || state.PrevMouthOpen {
		t.Errorf("state = %+v, expected second face to win", state)
	}
	if state.Blinks != 1 {
		t.Errorf("blinks = %d, expected 1 (second face lost the first face's eyes)", state.Blinks)
	}
	if state.Mouths != 1 {
		t.Errorf("mouths = %d, expected 1", state.Mouths)
	}
}

func TestTracker_ListenerSeesEventsInOrder(t *testing.T) {
	tr := New(time.Second, 0.2)

	var seen []Event
	tr.SetListener(func(e Event) {
		seen = append(seen, e)
	})

	tr.Process(frameAt(0, FaceObservation{Face: testFace, Eyes: eyes(2)}))
	events := tr.Process(frameAt(33, FaceObservation{Face: testFace, Mouths: mouths(true)}))
	events = append(events, tr.Process(frameAt(66, FaceObservation{Face: testFace, Eyes: []Rect{raisedEye}}))...)

	kinds := []EventKind{Blink, MouthOpen, EyebrowRaise}
	if len(seen) != len(kinds) {
		t.Fatalf("listener saw %d events, expected %d", len(seen), len(kinds))
	}
	for i, k := range kinds {
		if seen[i].Kind != k {
			t.Errorf("event %d: kind = %s, expected %s", i, seen[i].Kind, k)
		}
		if seen[i] != events[i] {
			t.Errorf("event %d: listener %+v != returned %+v", i, seen[i], events[i])
		}
		if seen[i].Count != 1 {
			t.Errorf("event %d: count = %d, expected 1", i, seen[i].Count)
		}
	}
}

func TestTracker_CountersMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New(time.Second, 0.2)

	prev := tr.Counts()
	var eyebrowTimes []time.Time

	for i := 0; i < 2000; i++ {
		var faces []FaceObservation
		for f := rng.Intn(3); f > 0; f-- {
			obs := FaceObservation{Face: testFace}
			for e := rng.Intn(3); e > 0; e-- {
				if rng.Intn(4) == 0 {
					obs.Eyes = append(obs.Eyes, raisedEye)
				} else {
					obs.Eyes = append(obs.Eyes, normalEye)
				}
			}
			obs.Mouths = mouths(rng.Intn(2) == 0)
			faces = append(faces, obs)
		}

		frame := frameAt(i*33, faces...)
		tr.Process(frame)
		cur := tr.Counts()

		for _, k := range Kinds {
			delta := cur.Of(k) - prev.Of(k)
			if delta < 0 {
				t.Fatalf("frame %d: %s decreased", i, k)
			}
			if delta > len(faces) {
				t.Fatalf("frame %d: %s grew by %d with %d faces", i, k, delta, len(faces))
			}
		}
		if d := cur.Eyebrows - prev.Eyebrows; d > 1 {
			t.Fatalf("frame %d: eyebrows grew by %d in one frame", i, d)
		} else if d == 1 {
			eyebrowTimes = append(eyebrowTimes, frame.At)
		}
		prev = cur
	}

	for i := 1; i < len(eyebrowTimes); i++ {
		if gap := eyebrowTimes[i].Sub(eyebrowTimes[i-1]); gap < time.Second {
			t.Errorf("eyebrow events %v apart", gap)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	tr := New(-1, 0)
	if tr.raiseRatio != DefaultEyebrowRaiseRatio {
		t.Errorf("raiseRatio = %v", tr.raiseRatio)
	}
	if tr.eyebrow.Window() != DefaultEyebrowCooldown {
		t.Errorf("cooldown = %v", tr.eyebrow.Window())
	}
}
