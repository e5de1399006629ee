/*Package ranges maintains sets of half-open [start, end) ranges over any
  ordered type, merging ranges that overlap or touch as they are added.  At
  any time the set holds the minimal collection of disjoint ranges covering
  everything that was added, so e.g. adding [5, 10) and then [9, 12) leaves
  the single range [5, 12), and adding [12, 15) after that extends it to
  [5, 15).

  Two implementations are provided.  Ranges keeps an unordered slice and scans
  it linearly; it is the better choice for small sets.  Tree keeps the ranges
  in a left-leaning red-black tree ordered by start, so each merge step is a
  logarithmic lookup.

  Neither type is safe for concurrent mutation.
*/
package ranges
