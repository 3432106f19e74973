package idgen

import (
	"errors"
	"strconv"
	"testing"

	"github.com/wyfcoding/rangequery/config"
)

func TestNewGeneratorKinds(t *testing.T) {
	g, err := NewGenerator(config.SnowflakeConfig{Type: "snowflake", MachineID: 1})
	if err != nil {
		t.Fatalf("NewGenerator(snowflake) failed: %v", err)
	}
	if g.Generate() <= 0 {
		t.Error("snowflake id should be positive")
	}

	// 空类型回退到 snowflake。
	if _, err := NewGenerator(config.SnowflakeConfig{MachineID: 2}); err != nil {
		t.Fatalf("NewGenerator(default) failed: %v", err)
	}

	if _, err := NewGenerator(config.SnowflakeConfig{Type: "uuid"}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("NewGenerator(uuid) error = %v, want ErrUnsupportedType", err)
	}
}

func TestSnowflakeGeneratorDistinctIDs(t *testing.T) {
	g, err := NewSnowflakeGenerator(config.SnowflakeConfig{MachineID: 3})
	if err != nil {
		t.Fatalf("NewSnowflakeGenerator failed: %v", err)
	}

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		if id <= 0 {
			t.Fatalf("id %d should be positive", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %d", id)
		}
		seen[id] = true
	}
}

func TestSonyflakeGenerator(t *testing.T) {
	g, err := NewSonyflakeGenerator(config.SnowflakeConfig{Type: "sonyflake", MachineID: 7})
	if err != nil {
		t.Fatalf("NewSonyflakeGenerator failed: %v", err)
	}
	if g.Generate() <= 0 {
		t.Error("sonyflake id should be positive")
	}
}

func TestSonyflakeMachineIDBounds(t *testing.T) {
	for _, machineID := range []int64{-1, 65536} {
		_, err := NewSonyflakeGenerator(config.SnowflakeConfig{MachineID: machineID})
		if !errors.Is(err, ErrInvalidMachineID) {
			t.Errorf("machine_id %d error = %v, want ErrInvalidMachineID", machineID, err)
		}
	}
}

func TestStartTimeParseFailure(t *testing.T) {
	bad := config.SnowflakeConfig{StartTime: "2020-13-99", MachineID: 1}

	if _, err := NewSnowflakeGenerator(bad); !errors.Is(err, ErrParseTime) {
		t.Errorf("snowflake bad start time error = %v, want ErrParseTime", err)
	}
	if _, err := NewSonyflakeGenerator(bad); !errors.Is(err, ErrParseTime) {
		t.Errorf("sonyflake bad start time error = %v, want ErrParseTime", err)
	}
}

func TestGenIDString(t *testing.T) {
	s := GenIDString()

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		t.Fatalf("GenIDString returned non-numeric %q: %v", s, err)
	}
	if id == 0 {
		t.Error("GenIDString should not produce zero")
	}
	if GenID() == 0 {
		t.Error("GenID should not produce zero")
	}
}
