package bank

import (
	"slices"

	"github.com/jonathan/interview-prep/internal/types"
)

// AddCategory appends an empty category to the bank.
func (s Snapshot) AddCategory(name string) (Snapshot, error) {
	name, err := requireName("category", name)
	if err != nil {
		return s, err
	}
	if s.HasCategory(name) {
		return s, &DuplicateNameError{Kind: KindCategory, Name: name}
	}

	out := s.clone()
	out.Bank.Categories = append(out.Bank.Categories, types.Category{
		Order:     len(out.Bank.Categories) + 1,
		Category:  name,
		Questions: []types.Question{},
	})
	return out.finalize(), nil
}

// DeleteCategory removes a category and its questions from the bank, and drops the
// name from every taxonomy sub-category list.
func (s Snapshot) DeleteCategory(name string) Snapshot {
	idx := s.categoryIndex(name)
	_, listed := s.EffectiveTaxonomy().MainOf(name)
	if idx < 0 && !listed {
		return s
	}

	out := s.clone()
	if idx >= 0 {
		out.Bank.Categories = slices.Delete(out.Bank.Categories, idx, idx+1)
	}
	if listed {
		tax := out.EffectiveTaxonomy()
		removeSubcategory(&tax, name)
		out.withTaxonomy(tax)
	}
	return out.finalize()
}

// RenameCategory renames a bank category and, in the same step, every taxonomy entry
// that lists it. The new name must not already exist in the bank or the taxonomy.
func (s Snapshot) RenameCategory(oldName, newName string) (Snapshot, error) {
	newName, err := requireName("category", newName)
	if err != nil {
		return s, err
	}
	if oldName == newName {
		return s, nil
	}

	idx := s.categoryIndex(oldName)
	tax := s.EffectiveTaxonomy()
	_, listed := tax.MainOf(oldName)
	if idx < 0 && !listed {
		return s, nil
	}
	if s.HasCategory(newName) {
		return s, &DuplicateNameError{Kind: KindCategory, Name: newName}
	}
	if _, taken := tax.MainOf(newName); taken {
		return s, &DuplicateNameError{Kind: KindSubCategory, Name: newName}
	}

	out := s.clone()
	if idx >= 0 {
		out.Bank.Categories[idx].Category = newName
	}
	if listed {
		renameSubcategory(&tax, oldName, newName)
		out.withTaxonomy(tax)
	}
	return out.finalize(), nil
}

// AddMainCategory appends an empty main category to the taxonomy.
func (s Snapshot) AddMainCategory(name string) (Snapshot, error) {
	name, err := requireName("main category", name)
	if err != nil {
		return s, err
	}
	tax := s.EffectiveTaxonomy()
	if tax.Has(name) {
		return s, &DuplicateNameError{Kind: KindMainCategory, Name: name}
	}

	out := s.clone()
	tax.Set(name, []string{})
	out.withTaxonomy(tax)
	return out, nil
}

// EditMainCategory renames a main category, keeping its position and sub-categories.
func (s Snapshot) EditMainCategory(oldName, newName string) (Snapshot, error) {
	newName, err := requireName("main category", newName)
	if err != nil {
		return s, err
	}
	if oldName == newName {
		return s, nil
	}
	tax := s.EffectiveTaxonomy()
	if !tax.Has(oldName) {
		return s, nil
	}
	if tax.Has(newName) {
		return s, &DuplicateNameError{Kind: KindMainCategory, Name: newName}
	}

	out := s.clone()
	tax.Rename(oldName, newName)
	out.withTaxonomy(tax)
	return out, nil
}

// DeleteMainCategory removes a main category and its sub-category list from the
// taxonomy. Bank categories it listed are kept and fall back to the first main category.
func (s Snapshot) DeleteMainCategory(name string) (Snapshot, error) {
	tax := s.EffectiveTaxonomy()
	if !tax.Has(name) {
		return s, nil
	}
	if tax.Len() <= 1 {
		return s, &LastItemError{Kind: KindMainCategory}
	}

	out := s.clone()
	tax.Delete(name)
	out.withTaxonomy(tax)
	return out, nil
}

// AddSubCategory appends a sub-category to a main category. A name already listed
// under any main category is rejected.
func (s Snapshot) AddSubCategory(main, sub string) (Snapshot, error) {
	sub, err := requireName("sub-category", sub)
	if err != nil {
		return s, err
	}
	tax := s.EffectiveTaxonomy()
	subs, ok := tax.Subcategories(main)
	if !ok {
		return s, nil
	}
	if _, taken := tax.MainOf(sub); taken {
		return s, &DuplicateNameError{Kind: KindSubCategory, Name: sub}
	}

	out := s.clone()
	tax.Set(main, append(subs, sub))
	out.withTaxonomy(tax)
	return out, nil
}

// EditSubCategory renames a sub-category under main and renames the matching bank
// category in the same step.
func (s Snapshot) EditSubCategory(main, oldSub, newSub string) (Snapshot, error) {
	newSub, err := requireName("sub-category", newSub)
	if err != nil {
		return s, err
	}
	if oldSub == newSub {
		return s, nil
	}
	tax := s.EffectiveTaxonomy()
	subs, ok := tax.Subcategories(main)
	if !ok || !slices.Contains(subs, oldSub) {
		return s, nil
	}
	if _, taken := tax.MainOf(newSub); taken {
		return s, &DuplicateNameError{Kind: KindSubCategory, Name: newSub}
	}
	if s.HasCategory(newSub) {
		return s, &DuplicateNameError{Kind: KindCategory, Name: newSub}
	}

	out := s.clone()
	for i, name := range subs {
		if name == oldSub {
			subs[i] = newSub
		}
	}
	tax.Set(main, subs)
	out.withTaxonomy(tax)
	if idx := out.categoryIndex(oldSub); idx >= 0 {
		out.Bank.Categories[idx].Category = newSub
	}
	return out.finalize(), nil
}

// DeleteSubCategory removes a sub-category from main's list. Bank questions are kept.
func (s Snapshot) DeleteSubCategory(main, sub string) Snapshot {
	tax := s.EffectiveTaxonomy()
	subs, ok := tax.Subcategories(main)
	if !ok || !slices.Contains(subs, sub) {
		return s
	}

	out := s.clone()
	tax.Set(main, slices.DeleteFunc(subs, func(name string) bool { return name == sub }))
	out.withTaxonomy(tax)
	return out
}

func removeSubcategory(tax *types.Taxonomy, sub string) {
	for _, main := range tax.Names() {
		subs, _ := tax.Subcategories(main)
		if slices.Contains(subs, sub) {
			tax.Set(main, slices.DeleteFunc(subs, func(name string) bool { return name == sub }))
		}
	}
}

func renameSubcategory(tax *types.Taxonomy, oldSub, newSub string) {
	for _, main := range tax.Names() {
		subs, _ := tax.Subcategories(main)
		changed := false
		for i, name := range subs {
			if name == oldSub {
				subs[i] = newSub
				changed = true
			}
		}
		if changed {
			tax.Set(main, subs)
		}
	}
}
