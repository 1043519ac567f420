package server

// widgetHTML is the browser surface. It renders what the server-side widget
// sends and owns only the DOM and speechSynthesis.
var widgetHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Voice Chat</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f4f5f7; }
  .container { max-width: 720px; margin: 0 auto; padding: 16px; }
  .controls { display: flex; gap: 8px; margin-bottom: 8px; }
  .status { padding: 6px 10px; border-radius: 6px; margin-bottom: 8px; background: #e8eaed; }
  .status.processing { background: #fff4ce; }
  .status.ready { background: #dff6dd; }
  .status.error { background: #fde7e9; }
  #chatArea { height: 60vh; overflow-y: auto; background: #fff; border-radius: 8px; padding: 12px; }
  .message { margin: 6px 0; padding: 8px 12px; border-radius: 10px; max-width: 80%; white-space: pre-wrap; }
  .user-message { background: #0b5cff; color: #fff; margin-left: auto; }
  .bot-message { background: #eef0f3; }
  .input-row { display: flex; gap: 8px; margin-top: 8px; }
  #textInput { flex: 1; padding: 10px; border-radius: 6px; border: 1px solid #ccc; }
  button { padding: 8px 14px; border-radius: 6px; border: 0; background: #0b5cff; color: #fff; cursor: pointer; }
  button.secondary { background: #5f6368; }
</style>
</head>
<body>
<div class="container">
  <div class="controls">
    <button id="clearBtn" class="secondary">Clear chat</button>
    <button id="stopVoiceBtn" class="secondary">Stop voice</button>
  </div>
  <div id="status" class="status idle">Connecting...</div>
  <div id="chatArea"></div>
  <div class="input-row">
    <input id="textInput" type="text" placeholder="Ask me anything..." autocomplete="off">
    <button id="sendBtn">Send</button>
  </div>
</div>
<script>
(function () {
  const synth = window.speechSynthesis;
  const el = (id) => document.getElementById(id);
  const chatArea = el('chatArea'), status = el('status'), textInput = el('textInput');
  const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  const ws = new WebSocket(proto + location.host + '/ws');

  const send = (type, payload) => {
    if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify({ type, payload }));
  };

  const addMessage = (m) => {
    const div = document.createElement('div');
    div.className = 'message ' + m.sender + '-message';
    div.textContent = m.text;
    chatArea.appendChild(div);
    chatArea.scrollTop = chatArea.scrollHeight;
  };

  const reportVoices = () => {
    if (!synth) return;
    const voices = synth.getVoices().map((v) => ({ id: v.voiceURI, name: v.name, lang: v.lang }));
    send('voices', { voices });
  };

  const handlers = {
    message: (p) => addMessage(p),
    reset: (p) => { chatArea.innerHTML = ''; addMessage(p.greeting); },
    status: (p) => { status.textContent = p.message; status.className = 'status ' + p.kind; },
    clear_input: () => { textInput.value = ''; },
    cancel_speech: () => { if (synth) synth.cancel(); },
    speak: (p) => {
      if (!synth) return;
      const u = new SpeechSynthesisUtterance(p.text);
      u.rate = p.rate; u.pitch = p.pitch; u.volume = p.volume;
      if (p.voice) {
        const v = synth.getVoices().find((x) => x.name === p.voice);
        if (v) u.voice = v;
      }
      synth.speak(u);
    },
  };

  ws.onopen = reportVoices;
  ws.onmessage = (ev) => {
    const env = JSON.parse(ev.data);
    const h = handlers[env.type];
    if (h) h(env.payload || {});
  };
  ws.onclose = () => { status.textContent = 'Disconnected. Reload to reconnect.'; status.className = 'status error'; };

  if (synth && synth.onvoiceschanged !== undefined) synth.onvoiceschanged = reportVoices;

  el('sendBtn').addEventListener('click', () => send('send', { text: textInput.value }));
  el('clearBtn').addEventListener('click', () => send('clear'));
  el('stopVoiceBtn').addEventListener('click', () => { if (synth) synth.cancel(); send('stop_voice'); });
  textInput.addEventListener('keypress', (e) => { if (e.key === 'Enter') send('send', { text: textInput.value }); });

  window.askQuestion = (question) => send('ask', { text: question });
})();
</script>
</body>
</html>
`
