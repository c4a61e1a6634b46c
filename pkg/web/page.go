package web

// controlPage is the minimal built-in control panel. Anything fancier
// should talk to the JSON API directly.
const controlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mini Car Control</title>
<style>
body { font-family: sans-serif; text-align: center; margin-top: 2em; }
button { font-size: 1.4em; margin: 0.2em; padding: 0.4em 1em; }
#estop { background: #c00; color: #fff; }
#state { margin-top: 1em; color: #555; }
</style>
</head>
<body>
<h1>Mini Car</h1>
<div><button onclick="send('forward')">&#8593;</button></div>
<div>
<button onclick="send('left')">&#8592;</button>
<button onclick="send('stop')">&#9632;</button>
<button onclick="send('right')">&#8594;</button>
</div>
<div><button onclick="send('backward')">&#8595;</button></div>
<div>
<label>speed <input id="speed" type="range" min="0" max="100" value="50"></label>
<button id="estop" onclick="estop()">E-STOP</button>
</div>
<div id="state">connecting&hellip;</div>
<script>
function send(command) {
  fetch('/command', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({command: command, speed: +document.getElementById('speed').value})
  });
}
function estop() { fetch('/estop', {method: 'POST'}); }
var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = function (ev) {
  var s = JSON.parse(ev.data);
  document.getElementById('state').textContent =
    (s.connected ? 'link up' : 'link down') +
    ' | heartbeat ' + (s.heartbeat_ok ? 'ok' : 'lost') +
    ' | last ' + s.last_command +
    ' | rx ' + s.messages_received;
};
ws.onclose = function () {
  document.getElementById('state').textContent = 'server gone';
};
</script>
</body>
</html>
`
