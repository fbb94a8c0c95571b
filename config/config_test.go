package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}

	d := Default()
	if *c != *d {
		t.Fatalf("got %+v, want defaults %+v", c, d)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueretro.json")
	if err := os.WriteFile(path, []byte(`{"device_name":"Deck"}`), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.DeviceName != "Deck" {
		t.Fatalf("device name %q", c.DeviceName)
	}
	if c.KeysFile != Default().KeysFile || c.ClassOfDevice != Default().ClassOfDevice {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueretro.json")
	if err := os.WriteFile(path, []byte(`{"device_name":`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueretro.json")

	c := Default()
	c.DeviceName = "BlueRetro Dev"
	c.FeedbackAutoOffMs = 3000
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *c {
		t.Fatalf("got %+v, want %+v", got, c)
	}
}
