package pulse

// NumVariables is the fixed number of variable slots.
const NumVariables = 64

// Slot is the last report recorded for one variable.
//
// The zero Slot means "never set", which is indistinguishable on the wire
// from sender 0 setting value 0 at timestamp 0.
type Slot struct {
	Timestamp uint16 `json:"timestamp"`
	Sender    uint8  `json:"sender"`
	Value     uint8  `json:"value"`
}

// Table holds the 64 variable slots. The zero value is ready to use.
//
// Table has no internal locking.
type Table struct {
	slots [NumVariables]Slot
}

// Set overwrites the slot for variable and reports whether it did.
// Variables 64 and above are silently ignored.
func (t *Table) Set(variable, sender, value uint8, timestamp uint16) bool {
	if int(variable) >= NumVariables {
		return false
	}
	t.slots[variable] = Slot{Timestamp: timestamp, Sender: sender, Value: value}
	return true
}

// Snapshot returns a copy of all slots in index order.
func (t *Table) Snapshot() [NumVariables]Slot {
	return t.slots
}

// Slot returns the current contents of one slot. ok is false when variable
// is out of range.
func (t *Table) Slot(variable uint8) (s Slot, ok bool) {
	if int(variable) >= NumVariables {
		return Slot{}, false
	}
	return t.slots[variable], true
}
