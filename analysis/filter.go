package analysis

import (
	"github.com/signalsfoundry/od-analyzer/model"
	"github.com/signalsfoundry/od-analyzer/odtable"
)

// PartitionByRejection splits the table into accepted rows (rejection flag
// false) and rejected rows (flag true). Both partitions are independent
// tables preserving row order; the source table is untouched. Residual and
// noise-envelope overlays are drawn from the accepted partition only, while
// the accept/reject scatter uses the full table.
func PartitionByRejection(t *odtable.Table) (accepted, rejected *odtable.Table, err error) {
	flags, ok := t.Flag(model.ResidualRejectedColumn)
	if !ok {
		return nil, nil, &MissingColumnError{Column: model.ResidualRejectedColumn}
	}

	keep := make([]bool, len(flags))
	drop := make([]bool, len(flags))
	for i, rejectedRow := range flags {
		keep[i] = !rejectedRow
		drop[i] = rejectedRow
	}

	accepted, err = t.Select(keep)
	if err != nil {
		return nil, nil, err
	}
	rejected, err = t.Select(drop)
	if err != nil {
		return nil, nil, err
	}
	return accepted, rejected, nil
}
