package provisioning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/aistack/internal/config"
)

// buildUserData renders the cloud-init script that boots the service stack:
// install docker, mount the shared filesystem when present, write the
// environment file and start compose.
func buildUserData(cfg *config.DeploymentConfig, fileSystemID, region string) string {
	var sb strings.Builder

	sb.WriteString("#!/bin/bash\nset -euo pipefail\n\n")
	sb.WriteString("apt-get update -y\n")
	sb.WriteString("apt-get install -y docker.io docker-compose-v2 nfs-common\n")
	sb.WriteString("systemctl enable --now docker\n\n")

	sb.WriteString("mkdir -p /opt/aistack\n")

	if fileSystemID != "" {
		sb.WriteString(fmt.Sprintf(
			"mkdir -p /mnt/shared\nmount -t nfs4 -o nfsvers=4.1 %s.efs.%s.amazonaws.com:/ /mnt/shared\n",
			fileSystemID, region))
		sb.WriteString(fmt.Sprintf(
			"echo '%s.efs.%s.amazonaws.com:/ /mnt/shared nfs4 nfsvers=4.1 0 0' >> /etc/fstab\n\n",
			fileSystemID, region))
	}

	sb.WriteString("cat > /opt/aistack/.env <<'ENVEOF'\n")
	names := make([]string, 0, len(cfg.Secrets))
	for name := range cfg.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("%s=%s\n", name, cfg.Secrets[name]))
	}
	sb.WriteString("ENVEOF\nchmod 600 /opt/aistack/.env\n\n")

	sb.WriteString(fmt.Sprintf("# Stack definition is fetched separately as %s\n", cfg.ComposeFile))
	sb.WriteString(fmt.Sprintf(
		"if [ -f /opt/aistack/%s ]; then\n  cd /opt/aistack && docker compose -f %s --env-file .env up -d\nfi\n",
		cfg.ComposeFile, cfg.ComposeFile))

	return sb.String()
}
