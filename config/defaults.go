package config

// -----------------------------------------------------------------------------
// Embedded defaults
//
// These live in flash, not RAM, and are parsed only when no persisted
// settings blob exists yet.
// -----------------------------------------------------------------------------

const defaultSettingsJSON = `{
  "screen": {
      "dim": true,
      "max_bright": 65535,
      "min_bright": 19661,
      "timeout_ms": 30000
  },
  "led_ring": {
      "enabled": true,
      "dim": true,
      "max_bright": 65535,
      "min_bright": 19661,
      "color": 16754176,
      "beacon": {
          "enabled": true,
          "brightness": 19661,
          "color": 16754176
      }
  }
}`
