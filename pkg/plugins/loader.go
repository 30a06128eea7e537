package plugins

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ConflictRecord describes a name collision observed during one
// discovery pass: a later descriptor claimed a name an earlier one
// already holds. The earlier descriptor is kept, the later one
// dropped. Conflicts are non-fatal; discovery continues.
type ConflictRecord struct {
	Name    string
	Kind    Kind
	Kept    Descriptor
	Dropped Descriptor
}

func (c ConflictRecord) String() string {
	return fmt.Sprintf("%s %q already implemented by an earlier registration; ignoring duplicate", c.Kind, c.Name)
}

// Loader runs discovery passes over a plugin Source, instantiating one
// plugin per unique name.
type Loader struct {
	source Source
	log    *logrus.Logger
}

// NewLoader creates a loader over the given source. A nil logger
// defaults to logrus.New().
func NewLoader(source Source, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.New()
	}
	return &Loader{
		source: source,
		log:    log,
	}
}

// Discover enumerates every descriptor registered under the namespace
// and instantiates each name's first descriptor with its no-argument
// factory. Later descriptors for an already-seen name are dropped and
// reported as ConflictRecords, logged at warning level.
//
// The enumeration order comes from the source and is treated as
// implementation-defined; first-wins makes the result deterministic
// relative to that order.
func (l *Loader) Discover(namespace Kind) (map[string]any, []ConflictRecord) {
	kept := make(map[string]Descriptor)
	instances := make(map[string]any)
	var conflicts []ConflictRecord

	for _, d := range l.source.Enumerate(namespace) {
		if existing, seen := kept[d.Name]; seen {
			record := ConflictRecord{
				Name:    d.Name,
				Kind:    namespace,
				Kept:    existing,
				Dropped: d,
			}
			conflicts = append(conflicts, record)
			l.log.WithFields(logrus.Fields{
				"namespace": string(namespace),
				"plugin":    d.Name,
			}).Warn(record.String())
			continue
		}

		kept[d.Name] = d
		instances[d.Name] = d.New()
	}

	l.log.WithField("namespace", string(namespace)).
		Debugf("discovered %d plugins (%d conflicts)", len(instances), len(conflicts))

	return instances, conflicts
}
