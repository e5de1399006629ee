/*Command bio-coverage merges and queries interval coverage stored as BED
  files.  Input files need not be sorted, and may be gzipped.

  Usage:
    bio-coverage merge [-one-based] [-out merged.bed] a.bed b.bed.gz ...
    bio-coverage query -bed merged.bed chr1:1000-2000 chr2 ...
    bio-coverage checksum a.bed ...

  merge writes the union of its inputs as sorted, disjoint three-column BED.
  query prints, for each region, the number of covered bases, the region
  length, and whether the region is covered, partial or uncovered.
  checksum prints a hash of the union of its inputs which does not depend on
  the order or grouping of the input intervals.
*/
package main
