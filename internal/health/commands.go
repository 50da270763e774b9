package health

// Commands are the diagnostics the checks and detail views run. Their output
// formats are an integration contract with the node's tooling.
type Commands struct {
	SysInfo      string `mapstructure:"sysinfo"`
	MonitSummary string `mapstructure:"monit_summary"`
	EtcdHealth   string `mapstructure:"etcd_health"`
	EtcdMembers  string `mapstructure:"etcd_members"`
	ClusterState string `mapstructure:"cluster_state"`
	Top          string `mapstructure:"top"`
	DiskFree     string `mapstructure:"disk_free"`
	NodeStatus   string `mapstructure:"node_status"`
}

// DefaultCommands returns the stock diagnostic command lines.
func DefaultCommands() Commands {
	return Commands{
		SysInfo:      "landscape-sysinfo",
		MonitSummary: "monit summary",
		EtcdHealth:   "clearwater-etcdctl cluster-health",
		EtcdMembers:  "clearwater-etcdctl member list",
		ClusterState: "/usr/share/clearwater/clearwater-cluster-manager/scripts/check_cluster_state",
		Top:          "top -b -n 1 -w 78",
		DiskFree:     "df",
		NodeStatus:   "clearwater-status",
	}
}

// Check names as displayed.
const (
	CheckCPU       = "CPU USE"
	CheckDisk      = "DISK USE"
	CheckNode      = "NODE"
	CheckEtcd      = "ETCD CLUSTER"
	CheckMemcached = "MEMCACHED CLUSTER"
	CheckChronos   = "CHRONOS CLUSTER"
	CheckCassandra = "CASSANDRA CLUSTER"
)

// Messages raised by non-GOOD checks.
const (
	msgCPU   = "YOUR CPU USE APPEARS TO BE TOO HIGH"
	msgDisk  = "YOUR DISK USE APPEARS TO BE TOO HIGH"
	msgNode  = "ONE OR MORE NODE PROCESSES NOT YET HEALTHY"
	msgEtcd  = "ETCD NOT YET FULLY CLUSTERED"
	msgStore = "%s NOT YET FULLY CLUSTERED"
)
