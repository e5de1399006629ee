/*Package interval tracks genomic coverage: for each reference sequence, the
  union of the half-open intervals that have been reported for it.
  Intervals may arrive in any order, including from unsorted BED files;
  overlapping and touching intervals are merged as they are added, and
  queries see only the resulting disjoint intervals.
  Positions are PosType, which is int32 since that's what BAM files are
  limited to.
*/
package interval
