/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// SuperFlag holds the options of a flag written as "key=value; key=value". Keys are case
// insensitive and underscores are treated as dashes.
type SuperFlag struct {
	m map[string]string
}

func parseFlag(opt string) (map[string]string, error) {
	kvm := make(map[string]string)
	for _, kv := range strings.Split(opt, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		splits := strings.SplitN(kv, "=", 2)
		if len(splits) != 2 {
			return nil, errors.Errorf("option %q is not of the form key=value", strings.TrimSpace(kv))
		}
		k := strings.TrimSpace(splits[0])
		k = strings.ToLower(k)
		k = strings.ReplaceAll(k, "_", "-")
		kvm[k] = strings.TrimSpace(splits[1])
	}
	return kvm, nil
}

// ParseSuperFlag parses opt and checks it against the defaults in def. Keys in opt that
// are missing from def are rejected, and keys missing from opt take their default.
func ParseSuperFlag(opt, def string) (*SuperFlag, error) {
	kv, err := parseFlag(opt)
	if err != nil {
		return nil, err
	}
	defaults, err := parseFlag(def)
	if err != nil {
		return nil, errors.Wrapf(err, "while parsing defaults")
	}
	var unknown []string
	for k := range kv {
		if _, ok := defaults[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Errorf("found invalid options in %q: %v", opt, unknown)
	}
	for k, v := range defaults {
		if _, ok := kv[k]; !ok {
			kv[k] = v
		}
	}
	return &SuperFlag{m: kv}, nil
}

// Get returns the raw value of key.
func (sf *SuperFlag) Get(key string) string {
	return sf.m[key]
}

// GetBool returns key parsed as a bool. Empty values are false.
func (sf *SuperFlag) GetBool(key string) (bool, error) {
	val := sf.Get(key)
	if val == "" {
		return false, nil
	}
	b, err := cast.ToBoolE(val)
	return b, errors.Wrapf(err, "unable to parse %s as bool for key: %s", val, key)
}

// GetInt returns key parsed as an int. Empty values are 0.
func (sf *SuperFlag) GetInt(key string) (int, error) {
	val := sf.Get(key)
	if val == "" {
		return 0, nil
	}
	i, err := cast.ToIntE(val)
	return i, errors.Wrapf(err, "unable to parse %s as int for key: %s", val, key)
}

// GetFloat64 returns key parsed as a float64. Empty values are 0.
func (sf *SuperFlag) GetFloat64(key string) (float64, error) {
	val := sf.Get(key)
	if val == "" {
		return 0, nil
	}
	f, err := cast.ToFloat64E(val)
	return f, errors.Wrapf(err, "unable to parse %s as float for key: %s", val, key)
}

// String returns the options sorted by key.
func (sf *SuperFlag) String() string {
	keys := make([]string, 0, len(sf.m))
	for k := range sf.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + sf.m[k]
	}
	return strings.Join(parts, "; ")
}
