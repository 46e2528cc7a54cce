package sqlinline

const QStatsSummary = `--sql e8b9c1f6-6b61-483d-9e99-76625601d32d
select
  total_users,
  analyses_committed,
  rounds_tracked,
  analyses_last24,
  previews_last24
from vw_stats_summary;
`
