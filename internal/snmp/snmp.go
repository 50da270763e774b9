// Package snmp reads numeric counters from the node's SNMP agent.
package snmp

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/rileyhilliard/nodehealth/internal/errors"
)

// Source reads a single named counter. Errors are never turned into zero;
// the caller decides what a failed read means for its cycle.
type Source interface {
	Get(ctx context.Context, oid string) (float64, error)
}

// Config describes the agent to query.
type Config struct {
	Target    string
	Port      uint16
	Community string
	Timeout   time.Duration
	Retries   int
}

// Client is a Source backed by an SNMP v2c GET. The health scheduler and
// the statistics sampler share one client, so requests are serialised.
type Client struct {
	mu   sync.Mutex
	conn *gosnmp.GoSNMP
	cfg  Config
}

// NewClient creates a client. The UDP socket is opened on first Get.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Get implements Source.
func (c *Client) Get(ctx context.Context, oid string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := c.connect(); err != nil {
		return 0, err
	}

	// The session outlives any one caller; each request runs under its own
	// context.
	c.conn.Context = ctx
	packet, err := c.conn.Get([]string{oid})
	c.conn.Context = context.Background()
	if err != nil {
		c.closeLocked()
		return 0, errors.WrapWithCode(err, errors.ErrSNMP,
			fmt.Sprintf("SNMP get of %s failed", oid),
			fmt.Sprintf("Check snmpd is running and accepts community %q", c.cfg.Community))
	}
	if len(packet.Variables) == 0 {
		return 0, errors.New(errors.ErrSNMP, fmt.Sprintf("SNMP agent returned no value for %s", oid), "")
	}

	return pduValue(packet.Variables[0])
}

// Close releases the UDP socket.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil || c.conn.Conn == nil {
		c.conn = nil
		return nil
	}
	err := c.conn.Conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	g := &gosnmp.GoSNMP{
		Target:    c.cfg.Target,
		Port:      c.cfg.Port,
		Community: c.cfg.Community,
		Version:   gosnmp.Version2c,
		Timeout:   c.cfg.Timeout,
		Retries:   c.cfg.Retries,
		Context:   context.Background(),
	}
	if err := g.Connect(); err != nil {
		return errors.WrapWithCode(err, errors.ErrSNMP,
			fmt.Sprintf("Couldn't open SNMP session to %s:%d", c.cfg.Target, c.cfg.Port),
			"Check snmp.target and snmp.port in the config")
	}
	c.conn = g
	return nil
}

// pduValue converts a varbind to a number. Integers, counters and gauges
// convert directly; octet strings are accepted when they hold a number.
func pduValue(pdu gosnmp.SnmpPDU) (float64, error) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return 0, errors.New(errors.ErrSNMP,
			fmt.Sprintf("SNMP agent has no value for %s (%s)", pdu.Name, pdu.Type), "")
	case gosnmp.OctetString:
		raw, _ := pdu.Value.([]byte)
		v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			return 0, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("SNMP value for %s is not numeric: %q", pdu.Name, raw), "")
		}
		return v, nil
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32,
		gosnmp.TimeTicks, gosnmp.Uinteger32:
		f, _ := new(big.Float).SetInt(gosnmp.ToBigInt(pdu.Value)).Float64()
		return f, nil
	default:
		return 0, errors.New(errors.ErrParse,
			fmt.Sprintf("SNMP value for %s has unsupported type %s", pdu.Name, pdu.Type), "")
	}
}
