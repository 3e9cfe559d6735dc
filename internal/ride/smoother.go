package ride

// WindowSize is the number of speed samples averaged by the Smoother.
const WindowSize = 5

// Smoother keeps the most recent WindowSize speed samples in a ring and
// reports their mean. The zero value is an empty window.
type Smoother struct {
	buf  [WindowSize]float64
	head int
	n    int
}

// Push appends a sample, evicting the oldest once the window is full, and
// returns the new mean.
func (s *Smoother) Push(kmh float64) float64 {
	if s.n < WindowSize {
		s.buf[(s.head+s.n)%WindowSize] = kmh
		s.n++
	} else {
		s.buf[s.head] = kmh
		s.head = (s.head + 1) % WindowSize
	}
	return s.Mean()
}

func (s *Smoother) Mean() float64 {
	if s.n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.n; i++ {
		sum += s.buf[(s.head+i)%WindowSize]
	}
	return sum / float64(s.n)
}

func (s *Smoother) Len() int { return s.n }

// Values returns the window contents oldest first.
func (s *Smoother) Values() []float64 {
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.buf[(s.head+i)%WindowSize]
	}
	return out
}

func (s *Smoother) Reset() {
	*s = Smoother{}
}
