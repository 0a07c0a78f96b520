package monitor

import (
	"crypto/subtle"
	"net/http"
	"os"

	"laptop-request-api/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMonitorPage serves a small status page that polls health and logs.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Laptop Desk Monitor</title>
  <style>
    body { background: #111827; color: #e5e7eb; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; padding: 20px; }
    .container { max-width: 1100px; margin: 0 auto; }
    .card { background: rgba(255,255,255,0.05); border: 1px solid rgba(255,255,255,0.1); border-radius: 12px; padding: 1rem 1.5rem; margin-bottom: 1.5rem; }
    pre { max-height: 60vh; overflow-y: auto; white-space: pre-wrap; font-size: 12px; }
    input, button { padding: 6px 10px; border-radius: 6px; border: 1px solid #374151; background: #1f2937; color: #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Laptop Desk Monitor</h1>
    <div class="card" id="status">Status: checking...</div>
    <div class="card">
      <label>Log token <input id="token" type="password" /></label>
      <button onclick="toggleLive()" id="toggleBtn">Pause Live Logs</button>
      <pre id="logs">Enter the log token to stream logs.</pre>
    </div>
  </div>
  <script>
    let liveLogs = true;
    const logsElement = document.getElementById('logs');
    const statusElement = document.getElementById('status');

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => { statusElement.textContent = 'Status: ' + (data.status === 'ok' ? 'Online' : 'Degraded'); })
        .catch(() => { statusElement.textContent = 'Status: Offline'; });
    }

    function fetchLogs() {
      const token = document.getElementById('token').value;
      if (!liveLogs || !token) return;
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => { logsElement.textContent = data; logsElement.scrollTop = logsElement.scrollHeight; });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      document.getElementById('toggleBtn').textContent = liveLogs ? 'Pause Live Logs' : 'Resume Live Logs';
    }

    fetchStatus();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the log file to holders of LOG_ACCESS_TOKEN.
// The route is disabled when the token is unset.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("LOG_ACCESS_TOKEN")
		if token == "" || subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})
}

// RegisterMetricsRoute serves the prometheus registry at /metrics.
func RegisterMetricsRoute(router *gin.Engine, registry *prometheus.Registry) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
}
