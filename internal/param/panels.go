package param

// Panel groups the descriptors one screen of the companion UI renders.
// Panels are static: built once at startup, never mutated.
type Panel struct {
	Name     string
	Controls []Descriptor
}

// Panels returns the control layout for the synthesizer, one panel per
// hardware section. Addresses follow the unit's CC implementation chart.
func Panels() []Panel {
	return []Panel{
		{
			Name: "Oscillator",
			Controls: []Descriptor{
				mustDescriptor("Glide", 5, 0, 127, 0, Linear(0, 5, " s")),
				mustDescriptor("Osc 2 Pitch", 18, 0, 127, 64, Semitones(" st")),
				mustDescriptor("Osc 2 Detune", 19, 0, 127, 64, Bilateral(50, 64)),
				mustDescriptor("Osc Mix", 20, 0, 127, 64, Bilateral(100, 64)),
				mustDescriptor("Arp Root", 85, 0, 127, 48, NoteName()),
			},
		},
		{
			Name: "Filter",
			Controls: []Descriptor{
				mustDescriptor("Cutoff", 74, 0, 127, 127, Percent()),
				mustDescriptor("Resonance", 71, 0, 127, 0, Percent()),
				mustDescriptor("Env Amount", 47, 0, 127, 64, Bilateral(100, 64)),
				mustDescriptor("Key Track", 48, 0, 127, 0, Percent()),
			},
		},
		{
			Name: "Envelope",
			Controls: []Descriptor{
				mustDescriptor("Attack", 73, 0, 127, 0, Linear(0, 10, " s")),
				mustDescriptor("Decay", 75, 0, 127, 32, Linear(0, 10, " s")),
				mustDescriptor("Sustain", 79, 0, 127, 127, Percent()),
				mustDescriptor("Release", 72, 0, 127, 16, Linear(0, 10, " s")),
			},
		},
		{
			Name: "LFO",
			Controls: []Descriptor{
				mustDescriptor("LFO Rate", 76, 0, 127, 32, Linear(0.1, 20, " Hz")),
				mustDescriptor("LFO Depth", 77, 0, 127, 0, Percent()),
				mustDescriptor("LFO Shape", 78, 0, 5, 0, Raw()),
			},
		},
		{
			Name: "Output",
			Controls: []Descriptor{
				mustDescriptor("Volume", 7, 0, 127, 100, Percent()),
				mustDescriptor("Pan", 10, 0, 127, 64, Bilateral(100, 64)),
				mustDescriptor("Drive", 95, 0, 127, 0, Percent()),
			},
		},
	}
}

// FindDescriptor looks an address up across all panels. The second return is
// false when no panel maps the address.
func FindDescriptor(panels []Panel, addr Address) (Descriptor, bool) {
	for _, p := range panels {
		for _, d := range p.Controls {
			if d.Address == addr {
				return d, true
			}
		}
	}
	return Descriptor{}, false
}
