package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusGood, "GOOD"},
		{StatusWarning, "WARNING"},
		{StatusError, "ERROR"},
		{Status(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestStatusTable_OrderIsStable(t *testing.T) {
	table := NewStatusTable()
	table.Set(CheckDisk, StatusGood)
	table.Set(CheckCPU, StatusGood)
	table.Set(CheckNode, StatusError)

	// Later updates change values, never positions
	table.Set(CheckDisk, StatusWarning)
	table.Set(CheckNode, StatusGood)
	table.Set(CheckEtcd, StatusWarning)

	assert.Equal(t, []Entry{
		{Name: CheckDisk, Status: StatusWarning},
		{Name: CheckCPU, Status: StatusGood},
		{Name: CheckNode, Status: StatusGood},
		{Name: CheckEtcd, Status: StatusWarning},
	}, table.Entries())
	assert.Equal(t, 4, table.Len())

	got, ok := table.Get(CheckDisk)
	assert.True(t, ok)
	assert.Equal(t, StatusWarning, got)
	_, ok = table.Get("MISSING")
	assert.False(t, ok)
}

func TestStatusTable_Failing(t *testing.T) {
	table := NewStatusTable()
	table.Set(CheckDisk, StatusWarning)
	table.Set(CheckCPU, StatusGood)
	table.Set(CheckNode, StatusError)

	assert.Equal(t, []string{CheckDisk, CheckNode}, table.Failing())
}

func TestStatusTable_EntriesIsACopy(t *testing.T) {
	table := NewStatusTable()
	table.Set(CheckCPU, StatusGood)

	entries := table.Entries()
	entries[0].Status = StatusError

	got, _ := table.Get(CheckCPU)
	assert.Equal(t, StatusGood, got)
}

func TestAlerts_Raise(t *testing.T) {
	var a Alerts
	a.Raise(Verdict{Name: CheckCPU, Status: StatusWarning, Message: "cpu"})
	a.Raise(Verdict{Name: CheckNode, Status: StatusError, Message: "node"})
	a.Raise(Verdict{Name: CheckDisk, Status: StatusGood})
	a.Raise(Verdict{Name: CheckEtcd, Status: StatusError, Message: "etcd"})
	a.Raise(Verdict{Name: CheckNode, Status: StatusError, Message: "node again"})

	assert.Equal(t, []Alert{
		{Name: CheckNode, Message: "node again"},
		{Name: CheckEtcd, Message: "etcd"},
	}, a.Errors)
	assert.Equal(t, []Alert{{Name: CheckCPU, Message: "cpu"}}, a.Warnings)
	assert.Equal(t, 3, a.Len())
}
