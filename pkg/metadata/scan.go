package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyIndex is returned by ScanIndex when a directory holds no region files.
var ErrEmptyIndex = errors.New("no region files")

// indexEntry is the part of a region document that places it in the Index.
type indexEntry struct {
	ID                 string `yaml:"id"`
	CountryCode        int    `yaml:"country_code"`
	MainCountryForCode bool   `yaml:"main_country_for_code"`
}

// ScanIndex builds an Index from the top-level *.yaml files of fsys, laid out
// as FSProvider expects. A geographic file must be named after its id and a
// non-geographic one ("001") after its calling code. Within a calling code the
// region marked main_country_for_code comes first, the rest sorted by id.
func ScanIndex(fsys fs.FS) (*Index, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}

	mains := make(map[int]string)
	others := make(map[int][]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		ent, err := readIndexEntry(fsys, name)
		if err != nil {
			return nil, err
		}
		code := ent.CountryCode

		if ent.ID == RegionCodeNonGeo {
			if len(others[code]) > 0 || mains[code] != "" {
				return nil, fmt.Errorf("scan index: %s: calling code %d is already geographic", name, code)
			}
			mains[code] = RegionCodeNonGeo
			continue
		}
		if mains[code] == RegionCodeNonGeo {
			return nil, fmt.Errorf("scan index: %s: calling code %d is non-geographic", name, code)
		}
		if !ent.MainCountryForCode {
			others[code] = append(others[code], ent.ID)
			continue
		}
		if prev := mains[code]; prev != "" {
			return nil, fmt.Errorf("scan index: %s: %s is already the main region for %d", name, prev, code)
		}
		mains[code] = ent.ID
	}

	table := make(map[int][]string, len(mains)+len(others))
	for code, id := range mains {
		table[code] = []string{id}
	}
	for code, ids := range others {
		slices.Sort(ids)
		table[code] = append(table[code], ids...)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("scan index: %w", ErrEmptyIndex)
	}
	return NewIndex(table), nil
}

func readIndexEntry(fsys fs.FS, name string) (indexEntry, error) {
	var ent indexEntry
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ent, fmt.Errorf("scan index: %w", err)
	}
	if err := yaml.Unmarshal(data, &ent); err != nil {
		return ent, fmt.Errorf("scan index: %s: %w", name, err)
	}
	if ent.ID == "" || ent.CountryCode <= 0 {
		return ent, fmt.Errorf("scan index: %s: region needs id and country_code", name)
	}

	want := ent.ID
	if ent.ID == RegionCodeNonGeo {
		want = strconv.Itoa(ent.CountryCode)
	}
	if stem := strings.TrimSuffix(name, ".yaml"); stem != want {
		return ent, fmt.Errorf("scan index: %s: file must be named %s.yaml", name, want)
	}
	return ent, nil
}
